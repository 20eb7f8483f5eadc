package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarbonCompendium/internal/calculator"
	"CarbonCompendium/internal/model"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"sqlite": sq,
		"memory": NewMemoryStore(),
	}
}

func cementPlant() *model.Project {
	return &model.Project{
		Name:              "Kiln upgrade",
		Description:       "Waste heat recovery",
		Industry:          "Cement",
		BaselineIntensity: 0.9,
		OutputTonnes:      1000,
		ActualEmissions:   700,
		Leakage:           50,
	}
}

func TestStore_CRUD(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			p := cementPlant()
			p.EstimatedCredits = -1 // overwritten
			require.NoError(t, s.Create(ctx, p))
			assert.NotZero(t, p.ID)
			assert.InDelta(t, 150, p.EstimatedCredits, 1e-9)

			got, err := s.Get(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, *p, *got)

			got.ActualEmissions = 1000
			require.NoError(t, s.Update(ctx, got))
			assert.InDelta(t, -150, got.EstimatedCredits, 1e-9)
			assert.Equal(t, model.CreditNotQualifying, calculator.Status(got.EstimatedCredits))

			second := cementPlant()
			second.Name = "Second"
			require.NoError(t, s.Create(ctx, second))

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, p.ID, list[0].ID)
			assert.Equal(t, 1000.0, list[0].ActualEmissions)

			require.NoError(t, s.Delete(ctx, p.ID))
			_, err = s.Get(ctx, p.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.Delete(ctx, p.ID), ErrNotFound)
		})
	}
}

func TestStore_Validation(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			p := cementPlant()
			p.Name = "  "
			assert.ErrorIs(t, s.Create(ctx, p), ErrNameMissing)

			p = cementPlant()
			p.Leakage = -5
			assert.ErrorIs(t, s.Create(ctx, p), calculator.ErrNegativeInput)

			p = cementPlant()
			p.ID = 999
			assert.ErrorIs(t, s.Update(ctx, p), ErrNotFound)
		})
	}
}
