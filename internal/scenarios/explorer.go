package scenarios

import (
	"fmt"
	"sync"

	"CarbonCompendium/internal/collector"
	"CarbonCompendium/internal/model"
)

// DefaultHorizonYear is the year the summary cards report on.
const DefaultHorizonYear = 2035

// Dataset is the full explorer table plus the horizon summary.
type Dataset struct {
	HorizonYear int                   `json:"horizon_year"`
	Rows        []model.ScenarioPoint `json:"rows"`
	Summary     []model.ScenarioPoint `json:"summary"`
	Profiles    []Profile             `json:"profiles"`
}

// Filter returns a copy of d restricted to sector, or d itself for "".
func (d *Dataset) Filter(sector string) *Dataset {
	if sector == "" {
		return d
	}
	out := &Dataset{HorizonYear: d.HorizonYear, Profiles: d.Profiles}
	for _, r := range d.Rows {
		if r.Sector == sector {
			out.Rows = append(out.Rows, r)
		}
	}
	for _, r := range d.Summary {
		if r.Sector == sector {
			out.Summary = append(out.Summary, r)
		}
	}
	return out
}

// Explorer builds scenario datasets from collected tariff history and keeps
// the last one until Refresh.
type Explorer struct {
	collector   *collector.Collector
	horizonYear int

	mu      sync.Mutex
	dataset *Dataset
}

// NewExplorer creates an Explorer. A horizon of 0 uses DefaultHorizonYear.
func NewExplorer(c *collector.Collector, horizonYear int) *Explorer {
	if horizonYear == 0 {
		horizonYear = DefaultHorizonYear
	}
	return &Explorer{collector: c, horizonYear: horizonYear}
}

// Dataset returns the cached dataset, building it on first use.
func (e *Explorer) Dataset() (*Dataset, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dataset != nil {
		return e.dataset, nil
	}
	ds, err := e.build()
	if err != nil {
		return nil, err
	}
	e.dataset = ds
	return ds, nil
}

// Refresh rebuilds the dataset from fresh history.
func (e *Explorer) Refresh() (*Dataset, error) {
	e.mu.Lock()
	e.dataset = nil
	e.mu.Unlock()
	return e.Dataset()
}

func (e *Explorer) build() (*Dataset, error) {
	history, err := e.collector.Collect()
	if err != nil {
		return nil, err
	}
	ds := &Dataset{HorizonYear: e.horizonYear, Profiles: Profiles()}
	for _, sector := range e.collector.Sectors {
		hist := history[sector]
		for _, h := range hist {
			ds.Rows = append(ds.Rows, model.ScenarioPoint{
				Year:        h.Year,
				Sector:      sector,
				Scenario:    Historical,
				Price:       h.Price,
				CO2KgPerKWh: h.CO2KgPerKWh,
			})
		}
		for _, p := range ds.Profiles {
			proj, err := Project(hist, p, e.horizonYear)
			if err != nil {
				return nil, fmt.Errorf("project %s %s: %w", sector, p.Name, err)
			}
			for i := range proj {
				proj[i].Sector = sector
			}
			ds.Rows = append(ds.Rows, proj...)
			ds.Summary = append(ds.Summary, proj[len(proj)-1])
		}
	}
	return ds, nil
}
