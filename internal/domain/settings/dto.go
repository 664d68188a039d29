package settings

import (
	"fmt"
	"net/url"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/validator"
)

type UpdateSettingsRequest struct {
	LocationMode      *string  `json:"location_mode"`
	OfficeLat         *float64 `json:"office_lat"`
	OfficeLng         *float64 `json:"office_lng"`
	MaxDistanceMeters *float64 `json:"max_distance_meters"`
	// Empty string clears the endpoint
	RemoteEndpoint *string `json:"remote_endpoint"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.LocationMode != nil && !validator.IsInSlice(*r.LocationMode, checkin.LocationModeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "location_mode",
			Message: fmt.Sprintf("location_mode must be one of: %v", checkin.LocationModeValues),
		})
	}

	if r.OfficeLat != nil && (*r.OfficeLat < -90 || *r.OfficeLat > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_lat",
			Message: "office_lat must be between -90 and 90",
		})
	}

	if r.OfficeLng != nil && (*r.OfficeLng < -180 || *r.OfficeLng > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "office_lng",
			Message: "office_lng must be between -180 and 180",
		})
	}

	if r.MaxDistanceMeters != nil && *r.MaxDistanceMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "max_distance_meters",
			Message: "max_distance_meters must be greater than 0",
		})
	}

	if r.RemoteEndpoint != nil && *r.RemoteEndpoint != "" {
		u, err := url.Parse(*r.RemoteEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, validator.ValidationError{
				Field:   "remote_endpoint",
				Message: "remote_endpoint must be an http(s) URL",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func (r UpdateSettingsRequest) ToPartial() Partial {
	p := Partial{
		OfficeLat:         r.OfficeLat,
		OfficeLng:         r.OfficeLng,
		MaxDistanceMeters: r.MaxDistanceMeters,
		RemoteEndpoint:    r.RemoteEndpoint,
	}
	if r.LocationMode != nil {
		mode := checkin.LocationMode(*r.LocationMode)
		p.LocationMode = &mode
	}
	return p
}

// PublicSettingsResponse hides the remote endpoint from devices.
type PublicSettingsResponse struct {
	LocationMode      checkin.LocationMode `json:"locationMode"`
	OfficeLocation    geo.Point            `json:"officeLocation"`
	MaxDistanceMeters float64              `json:"maxDistanceMeters"`
	Timezone          string               `json:"timezone"`
}
