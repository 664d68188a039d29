package checkin

import (
	"log/slog"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
)

// stage is a step of a single check-in transaction. Stages only move forward.
type stage int

const (
	stageCollectingInput stage = iota
	stageReasonCheck
	stageGeoCheck
	stageCapturing
	stageVerifying
	stageCommitted
)

var stageNames = [...]string{
	stageCollectingInput: "collecting-input",
	stageReasonCheck:     "reason-check",
	stageGeoCheck:        "geo-check",
	stageCapturing:       "capturing",
	stageVerifying:       "verifying",
	stageCommitted:       "committed",
}

func (s stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return "unknown"
}

type flow struct {
	stage   stage
	staffID string
	kind    checkin.AttendanceType
}

func newFlow(staffID string, kind checkin.AttendanceType) *flow {
	return &flow{stage: stageCollectingInput, staffID: staffID, kind: kind}
}

func (f *flow) enter(next stage) {
	if next <= f.stage {
		return
	}
	slog.Debug("Check-in stage", "staff_id", f.staffID, "type", f.kind, "from", f.stage.String(), "to", next.String())
	f.stage = next
}

// reject logs a blocking failure at the current stage and returns err unchanged.
func (f *flow) reject(err error) error {
	slog.Info("Check-in rejected", "staff_id", f.staffID, "type", f.kind, "stage", f.stage.String(), "error", err)
	return err
}
