package settings

import (
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
)

// AppSettings is the runtime-tunable configuration shared by every device.
type AppSettings struct {
	LocationMode      checkin.LocationMode `json:"locationMode"`
	OfficeLocation    geo.Point            `json:"officeLocation"`
	MaxDistanceMeters float64              `json:"maxDistanceMeters"`
	RemoteEndpoint    *string              `json:"remoteEndpoint,omitempty"`
}

// Defaults returns the factory settings. remoteEndpoint may be empty.
func Defaults(remoteEndpoint string) AppSettings {
	s := AppSettings{
		LocationMode:      checkin.LocationModeOnline,
		OfficeLocation:    geo.Point{Lat: 13.7563, Lng: 100.5018},
		MaxDistanceMeters: 100,
	}
	if remoteEndpoint != "" {
		s.RemoteEndpoint = &remoteEndpoint
	}
	return s
}

// Partial is a stored or requested subset of settings; nil fields are unset.
type Partial struct {
	LocationMode      *checkin.LocationMode
	OfficeLat         *float64
	OfficeLng         *float64
	MaxDistanceMeters *float64
	RemoteEndpoint    *string
}

// Apply overlays the set fields of p onto s.
func (p Partial) Apply(s AppSettings) AppSettings {
	if p.LocationMode != nil {
		s.LocationMode = *p.LocationMode
	}
	if p.OfficeLat != nil {
		s.OfficeLocation.Lat = *p.OfficeLat
	}
	if p.OfficeLng != nil {
		s.OfficeLocation.Lng = *p.OfficeLng
	}
	if p.MaxDistanceMeters != nil {
		s.MaxDistanceMeters = *p.MaxDistanceMeters
	}
	if p.RemoteEndpoint != nil {
		if *p.RemoteEndpoint == "" {
			s.RemoteEndpoint = nil
		} else {
			v := *p.RemoteEndpoint
			s.RemoteEndpoint = &v
		}
	}
	return s
}

// Merge overlays next onto p, field by field.
func (p Partial) Merge(next Partial) Partial {
	if next.LocationMode != nil {
		p.LocationMode = next.LocationMode
	}
	if next.OfficeLat != nil {
		p.OfficeLat = next.OfficeLat
	}
	if next.OfficeLng != nil {
		p.OfficeLng = next.OfficeLng
	}
	if next.MaxDistanceMeters != nil {
		p.MaxDistanceMeters = next.MaxDistanceMeters
	}
	if next.RemoteEndpoint != nil {
		p.RemoteEndpoint = next.RemoteEndpoint
	}
	return p
}
