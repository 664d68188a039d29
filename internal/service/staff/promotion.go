package staff

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/staff"
	"github.com/cmlabs-hris/checkin-backend-go/internal/fixtures"
)

// Promotion overrides the role shown for a staff id from EffectiveFrom onwards.
type Promotion struct {
	StaffID       string
	Role          string
	EffectiveFrom time.Time // calendar date, inclusive
}

// ParsePromotions converts the seasonal promotion table.
func ParsePromotions(rules []fixtures.PromotionRule) ([]Promotion, error) {
	promotions := make([]Promotion, 0, len(rules))
	for _, r := range rules {
		from, err := time.Parse("2006-01-02", r.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid effective_from %q for staff %s: %w", r.EffectiveFrom, r.StaffID, err)
		}
		promotions = append(promotions, Promotion{
			StaffID:       staff.NormalizeID(r.StaffID),
			Role:          r.Role,
			EffectiveFrom: from,
		})
	}
	return promotions, nil
}

// applyPromotions returns s with the latest promotion effective on today.
// Nothing is persisted; the stored role is untouched.
func applyPromotions(s staff.Staff, promotions []Promotion, today time.Time) staff.Staff {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	id := staff.NormalizeID(s.ID)

	var best *Promotion
	for i := range promotions {
		p := &promotions[i]
		if p.StaffID != id || day.Before(p.EffectiveFrom) {
			continue
		}
		if best == nil || p.EffectiveFrom.After(best.EffectiveFrom) {
			best = p
		}
	}
	if best != nil {
		s.Role = best.Role
	}
	return s
}
