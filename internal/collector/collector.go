package collector

import (
	"fmt"
	"log"
	"math"

	"CarbonCompendium/internal/model"
)

// MockFetcher returns fixed tariff history for development and testing.
// Data overrides the generated series per sector when set.
type MockFetcher struct {
	Data map[string][]model.TariffPoint
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(sector string) ([]model.TariffPoint, error) {
	if m.Data != nil {
		if pts, ok := m.Data[sector]; ok {
			return pts, nil
		}
		return nil, fmt.Errorf("mock: no data for sector %q", sector)
	}
	return generateMockHistory(sector), nil
}

// Sample history: 2010 to 2024 tariffs growing about 9% a year with a
// coal-heavy grid slowly decarbonising.
var mockBasePrice = map[string]float64{
	"Residential": 75,
	"Business":    68,
	"Industrial":  55,
}

func generateMockHistory(sector string) []model.TariffPoint {
	base, ok := mockBasePrice[sector]
	if !ok {
		base = 65
	}
	points := make([]model.TariffPoint, 0, 15)
	price := base
	for i := 0; i < 15; i++ {
		if i > 0 {
			price *= 1.09 + 0.01*math.Sin(float64(i))
		}
		points = append(points, model.TariffPoint{
			Year:        2010 + i,
			Sector:      sector,
			Price:       math.Round(price*10) / 10,
			CO2KgPerKWh: math.Round((1.05-0.008*float64(i))*1000) / 1000,
		})
	}
	return points
}

// Collector fetches tariff history for every sector, falling back to a
// secondary fetcher when the primary fails.
type Collector struct {
	Fetcher  Fetcher
	Fallback Fetcher
	Sectors  []string
}

// NewCollector creates a new Collector over the default sectors.
func NewCollector(fetcher, fallback Fetcher) *Collector {
	return &Collector{Fetcher: fetcher, Fallback: fallback, Sectors: Sectors}
}

// Collect returns the history of each sector keyed by sector name.
func (c *Collector) Collect() (map[string][]model.TariffPoint, error) {
	out := make(map[string][]model.TariffPoint, len(c.Sectors))
	for _, sector := range c.Sectors {
		pts, err := c.Fetcher.FetchHistory(sector)
		if err != nil || len(pts) == 0 {
			if c.Fallback == nil {
				if err == nil {
					err = fmt.Errorf("no history returned")
				}
				return nil, fmt.Errorf("fetch %s history from %s: %w", sector, c.Fetcher.Name(), err)
			}
			log.Printf("[WARN] %s history from %s unavailable (%v), using %s",
				sector, c.Fetcher.Name(), err, c.Fallback.Name())
			pts, err = c.Fallback.FetchHistory(sector)
			if err != nil {
				return nil, fmt.Errorf("fetch %s history from %s: %w", sector, c.Fallback.Name(), err)
			}
		}
		out[sector] = pts
	}
	return out, nil
}
