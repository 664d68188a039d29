package geo

import "math"

// earthRadius is the mean Earth radius in meters.
const earthRadius = 6371000

// Point is a WGS-84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether p is the unset origin sentinel {0,0}.
func (p Point) IsZero() bool {
	return p.Lat == 0 && p.Lng == 0
}

// DistanceMeters returns the haversine distance between a and b in meters.
// Any zero coordinate component means "unset" and yields exactly 0.
func DistanceMeters(a, b Point) float64 {
	if a.Lat == 0 || a.Lng == 0 || b.Lat == 0 || b.Lng == 0 {
		return 0
	}

	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLng := (b.Lng - a.Lng) * (math.Pi / 180.0)

	lat1Rad := a.Lat * (math.Pi / 180.0)
	lat2Rad := b.Lat * (math.Pi / 180.0)

	cosProduct := math.Cos(lat1Rad) * math.Cos(lat2Rad)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*cosProduct

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
