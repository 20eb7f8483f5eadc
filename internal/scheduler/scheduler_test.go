package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarbonCompendium/internal/cache"
	"CarbonCompendium/internal/config"
	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/observability"
	"CarbonCompendium/internal/recorder"
	"CarbonCompendium/internal/registry"
	"CarbonCompendium/internal/service"
)

type captureSender struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureSender) SendWithRetry(_ context.Context, text string, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

type stubGlossary map[string][]model.GlossaryTerm

func (g stubGlossary) Search(_ context.Context, q, _ string) ([]model.GlossaryTerm, error) {
	return g[q], nil
}

type memRecorder struct {
	mu   sync.Mutex
	runs []model.RunRecord
}

func (m *memRecorder) RecordRun(_ context.Context, r *model.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.CreatedAt = time.Now()
	m.runs = append([]model.RunRecord{*r}, m.runs...)
	return nil
}

func (m *memRecorder) Recent(_ context.Context, limit int) ([]model.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.runs) < limit {
		limit = len(m.runs)
	}
	return m.runs[:limit], nil
}

func (m *memRecorder) Close() error { return nil }

func kilnScenario() config.Scenario {
	seed := int64(7)
	return config.Scenario{
		Name:   "kiln",
		Cron:   "0 0 6 * * 1",
		Seed:   &seed,
		Preset: model.PresetEstablished,
		Config: model.SimulationConfig{
			Years:             5,
			Sales:             model.Range{Min: 1000, Max: 2000},
			Price:             model.Range{Min: 80, Max: 120},
			Cost:              model.Range{Min: 50, Max: 90},
			InitialInvestment: 500000,
			Trials:            1000,
		},
	}
}

func newTestScheduler(t *testing.T) (*Scheduler, *captureSender, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	svc := service.New(service.Options{MinTrials: 1000, MaxTrials: 20000, DefaultTrials: 1000},
		cache.NewMemoryCache(0), rec, observability.NewMetrics(prometheus.NewRegistry()))

	projects := registry.NewMemoryStore()
	require.NoError(t, projects.Create(context.Background(), &model.Project{
		Name: "Kiln", Industry: "Cement", BaselineIntensity: 0.9, OutputTonnes: 1000, ActualEmissions: 700,
	}))

	gl := stubGlossary{"leakage": {{Term: "Leakage", Category: "Methodology", Definition: "Shifted emissions."}}}
	sender := &captureSender{}
	s := NewScheduler(context.Background(), svc, []config.Scenario{kilnScenario(), {Name: "adhoc"}}, projects, gl, sender)
	return s, sender, rec
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.RegisterAll())
	assert.Len(t, s.Cron.Entries(), 1)

	s.Scenarios = []config.Scenario{{Name: "bad", Cron: "not a cron"}}
	assert.Error(t, s.RegisterAll())
}

func TestRunScenarioNow_PushesReport(t *testing.T) {
	s, sender, rec := newTestScheduler(t)
	require.NoError(t, s.RunScenarioNow("kiln"))

	require.Len(t, sender.msgs, 1)
	assert.Contains(t, sender.msgs[0], "Monte Carlo simulation: kiln")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.SourceSchedule, rec.runs[0].Source)
	assert.Equal(t, int64(7), rec.runs[0].Seed)

	assert.Error(t, s.RunScenarioNow("missing"))
}

func TestHandleCommand(t *testing.T) {
	s, _, rec := newTestScheduler(t)

	reply := s.HandleCommand("/simulate kiln")
	assert.Contains(t, reply, "Monte Carlo simulation: kiln")
	require.Len(t, rec.runs, 1)
	assert.Equal(t, recorder.SourceCommand, rec.runs[0].Source)

	assert.Contains(t, s.HandleCommand("/simulate nope"), "Unknown scenario")
	assert.Contains(t, s.HandleCommand("/simulate adhoc"), "failed")
	assert.Contains(t, s.HandleCommand("/scenarios"), "kiln (10%, 0 0 6 * * 1)")
	assert.Contains(t, s.HandleCommand("/history"), "command/kiln")
	assert.Contains(t, s.HandleCommand("/projects@compendium_bot"), "#1 Kiln (Cement): 200.00")
	assert.Contains(t, s.HandleCommand("/glossary leakage"), "<b>Leakage</b>")
	assert.Contains(t, s.HandleCommand("/glossary biochar"), "not currently in glossary")
	assert.Equal(t, helpText, s.HandleCommand("hello"))
}
