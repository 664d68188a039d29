package checkin

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/geo"
	"github.com/google/uuid"
)

// GeoResult is the outcome of the geo-check. The zero value means no check ran.
type GeoResult struct {
	Location geo.Point
	Distance float64
}

// Synthesizer assembles records. It has no side effects.
type Synthesizer struct {
	newID func() string
	now   func() time.Time
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{newID: uuid.NewString, now: time.Now}
}

// Synthesize builds a record with a fresh id, stamped at the moment of the call.
func (s *Synthesizer) Synthesize(member staff.Staff, t checkin.AttendanceType, reason string, geoResult GeoResult, status, imageRef, aiNote string) checkin.Record {
	return checkin.Record{
		ID:               s.newID(),
		StaffID:          member.ID,
		Name:             member.Name,
		Role:             member.Role,
		Type:             t,
		Timestamp:        s.now().UnixMilli(),
		Reason:           strings.TrimSpace(reason),
		Location:         geoResult.Location,
		DistanceFromBase: geoResult.Distance,
		Status:           status,
		ImageRef:         imageRef,
		AINote:           aiNote,
		Synced:           false,
	}
}
