package recorder

import (
	"context"

	"CarbonCompendium/internal/model"
)

// Run sources.
const (
	SourceAPI      = "api"
	SourceSchedule = "schedule"
	SourceCommand  = "command"
)

// Recorder persists simulation runs for later review.
type Recorder interface {
	RecordRun(ctx context.Context, run *model.RunRecord) error
	Recent(ctx context.Context, limit int) ([]model.RunRecord, error)
	Close() error
}
