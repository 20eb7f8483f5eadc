package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarbonCompendium/internal/model"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	irr := 0.12

	run := &model.RunRecord{
		Source: SourceAPI,
		Name:   "baseline",
		Seed:   42,
		Config: model.SimulationConfig{Years: 5, Trials: 1000, DiscountRate: 0.1},
		Summary: model.SimulationSummary{
			Trials:          1000,
			MeanNPV:         1234.5,
			ProbNPVPositive: 0.61,
			MeanIRR:         &irr,
			IRRCount:        990,
			IRROmitted:      10,
		},
		Sensitivity: map[string]float64{"price": 0.7},
	}
	require.NoError(t, r.RecordRun(ctx, run))
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())

	runs, err := r.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "baseline", got.Name)
	assert.Equal(t, int64(42), got.Seed)
	assert.Equal(t, run.Config, got.Config)
	assert.Equal(t, 1234.5, got.Summary.MeanNPV)
	require.NotNil(t, got.Summary.MeanIRR)
	assert.Equal(t, 0.12, *got.Summary.MeanIRR)
	assert.Equal(t, 10, got.Summary.IRROmitted)
	assert.Equal(t, 0.7, got.Sensitivity["price"])
}

func TestSQLiteRecorder_RecentNewestFirst(t *testing.T) {
	r := newTestRecorder(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, name := range []string{"a", "b", "c"} {
		require.NoError(t, r.RecordRun(ctx, &model.RunRecord{
			Source:    SourceSchedule,
			Name:      name,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	runs, err := r.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].Name)
	assert.Equal(t, "b", runs[1].Name)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(context.Background(), &model.RunRecord{}))
	runs, err := r.Recent(context.Background(), 3)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}
