// Package service runs simulations for every entry point: the HTTP API,
// chat commands and scheduled scenarios.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"CarbonCompendium/internal/cache"
	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/montecarlo"
	"CarbonCompendium/internal/observability"
	"CarbonCompendium/internal/recorder"
)

// Options bounds the simulations the service accepts.
type Options struct {
	MinTrials     int
	MaxTrials     int
	DefaultTrials int
	HistogramBins int
}

// Request is one simulation request. When Preset is set it replaces
// Config.DiscountRate. A nil Seed draws a fresh one.
type Request struct {
	Config            model.SimulationConfig `json:"config"`
	Preset            model.DiscountPreset   `json:"preset,omitempty"`
	CustomRatePercent float64                `json:"custom_rate_percent,omitempty"`
	Seed              *int64                 `json:"seed,omitempty"`
	Source            string                 `json:"-"`
	Name              string                 `json:"name,omitempty"`
}

// Service resolves, runs, caches and records simulations.
type Service struct {
	opts     Options
	cache    cache.Cache
	recorder recorder.Recorder
	metrics  *observability.Metrics
	newSeed  func() int64
}

// New creates a Service. cache may be nil to disable caching.
func New(opts Options, c cache.Cache, rec recorder.Recorder, m *observability.Metrics) *Service {
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = montecarlo.DefaultHistogramBins
	}
	return &Service{
		opts:     opts,
		cache:    c,
		recorder: rec,
		metrics:  m,
		newSeed:  func() int64 { return time.Now().UnixNano() },
	}
}

// Resolve applies the preset and trial defaults to req and validates the
// resulting configuration.
func (s *Service) Resolve(req Request) (model.SimulationConfig, error) {
	cfg := req.Config
	if req.Preset != "" {
		rate, err := montecarlo.ResolveDiscountRate(req.Preset, req.CustomRatePercent)
		if err != nil {
			return cfg, err
		}
		cfg.DiscountRate = rate
	}
	if cfg.Trials == 0 {
		cfg.Trials = s.opts.DefaultTrials
	}
	if s.opts.MinTrials > 0 && cfg.Trials < s.opts.MinTrials ||
		s.opts.MaxTrials > 0 && cfg.Trials > s.opts.MaxTrials {
		return cfg, &montecarlo.ConfigError{
			Field:  "trials",
			Reason: fmt.Sprintf("must be between %d and %d", s.opts.MinTrials, s.opts.MaxTrials),
		}
	}
	return cfg, montecarlo.Validate(cfg)
}

// Run executes req and records it. Seeded requests are served from the
// cache when an identical run was made before.
func (s *Service) Run(ctx context.Context, req Request) (*model.SimulationResult, error) {
	source := req.Source
	if source == "" {
		source = recorder.SourceAPI
	}

	cfg, err := s.Resolve(req)
	if err != nil {
		s.metrics.ObserveStatus(source, observability.StatusInvalid)
		return nil, err
	}

	seed := s.newSeed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	var key string
	if req.Seed != nil && s.cache != nil {
		if key, err = cache.Key(cfg, seed, s.opts.HistogramBins); err != nil {
			return nil, err
		}
		if res, ok := s.fromCache(ctx, key); ok {
			s.metrics.ObserveStatus(source, observability.StatusCached)
			s.record(ctx, source, req.Name, res)
			return res, nil
		}
	}

	start := time.Now()
	res, err := montecarlo.NewSeeded(seed).WithHistogramBins(s.opts.HistogramBins).Run(cfg)
	if err != nil {
		status := observability.StatusError
		var cfgErr *montecarlo.ConfigError
		if errors.As(err, &cfgErr) {
			status = observability.StatusInvalid
		}
		s.metrics.ObserveStatus(source, status)
		return nil, err
	}
	s.metrics.ObserveRun(source, res.Summary, time.Since(start))

	if key != "" {
		if data, err := json.Marshal(res); err != nil {
			log.Printf("[WARN] encode result for cache: %v", err)
		} else if err := s.cache.Set(ctx, key, data); err != nil {
			log.Printf("[WARN] cache result: %v", err)
		}
	}

	s.record(ctx, source, req.Name, res)
	return res, nil
}

// Recent lists recorded runs, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]model.RunRecord, error) {
	return s.recorder.Recent(ctx, limit)
}

func (s *Service) fromCache(ctx context.Context, key string) (*model.SimulationResult, bool) {
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	var res model.SimulationResult
	if err := json.Unmarshal(data, &res); err != nil {
		log.Printf("[WARN] discard corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	return &res, true
}

func (s *Service) record(ctx context.Context, source, name string, res *model.SimulationResult) {
	run := &model.RunRecord{
		Source:      source,
		Name:        name,
		Seed:        res.Seed,
		Config:      res.Config,
		Summary:     res.Summary,
		Sensitivity: res.Sensitivity,
	}
	if err := s.recorder.RecordRun(ctx, run); err != nil {
		log.Printf("[WARN] record simulation run: %v", err)
	}
}
