// Package registry stores carbon projects and their estimated credits.
package registry

import (
	"context"
	"errors"
	"strings"

	"CarbonCompendium/internal/calculator"
	"CarbonCompendium/internal/model"
)

var (
	ErrNotFound    = errors.New("project not found")
	ErrNameMissing = errors.New("project name is required")
)

// Store persists projects. Create and Update recompute EstimatedCredits.
type Store interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int64) error
	Close() error
}

// prepare validates p and sets its estimated credits.
func prepare(p *model.Project) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameMissing
	}
	preview, err := calculator.PreviewWithIntensity(p.BaselineIntensity, p.OutputTonnes, p.ActualEmissions, p.Leakage)
	if err != nil {
		return err
	}
	p.EstimatedCredits = preview.EstimatedCredits
	return nil
}
