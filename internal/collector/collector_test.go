package collector

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CarbonCompendium/internal/model"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tariffs", r.URL.Path)
		assert.Equal(t, "Industrial", r.URL.Query().Get("sector"))
		assert.Equal(t, "Bearer k3y", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"year": 2012, "sector": "Industrial", "price": 60.5, "co2_kg_per_kwh": 1.01},
			{"year": 2011, "price": 55.0, "co2_kg_per_kwh": 1.02},
			{"year": 2011, "sector": "Business", "price": 70.0, "co2_kg_per_kwh": 1.02}
		]`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, "k3y", "")
	pts, err := f.FetchHistory("Industrial")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 2011, pts[0].Year)
	assert.Equal(t, "Industrial", pts[0].Sector)
	assert.Equal(t, 60.5, pts[1].Price)
}

func TestHTTPFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, "", "").FetchHistory("Business")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestCSVFetcher(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tariffs.csv")
	data := "sector,year,price,co2_kg_per_kwh\n" +
		"Residential,2011,80.1,1.04\n" +
		"Residential,2010,75.0,1.05\n" +
		"Business,2010,68.0,1.05\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	pts, err := NewCSVFetcher(path).FetchHistory("residential")
	require.NoError(t, err)
	require.Len(t, pts, 2)
	assert.Equal(t, 2010, pts[0].Year)
	assert.Equal(t, 80.1, pts[1].Price)
	assert.Equal(t, 1.04, pts[1].CO2KgPerKWh)
}

func TestParseTariffCSV_Errors(t *testing.T) {
	_, err := ParseTariffCSV(strings.NewReader("year,sector,price\n2010,Business,1\n"))
	assert.ErrorContains(t, err, "co2_kg_per_kwh")

	_, err = ParseTariffCSV(strings.NewReader("year,sector,price,co2_kg_per_kwh\nabc,Business,1,1\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestMockFetcher(t *testing.T) {
	pts, err := (&MockFetcher{}).FetchHistory("Residential")
	require.NoError(t, err)
	require.Len(t, pts, 15)
	assert.Equal(t, 2010, pts[0].Year)
	assert.Equal(t, 2024, pts[14].Year)
	for i := 1; i < len(pts); i++ {
		assert.Greater(t, pts[i].Price, pts[i-1].Price)
		assert.Less(t, pts[i].CO2KgPerKWh, pts[i-1].CO2KgPerKWh)
	}
}

type failingFetcher struct{}

func (failingFetcher) Name() string { return "down" }
func (failingFetcher) FetchHistory(string) ([]model.TariffPoint, error) {
	return nil, errors.New("connection refused")
}

func TestCollector_Fallback(t *testing.T) {
	c := NewCollector(failingFetcher{}, &MockFetcher{})
	hist, err := c.Collect()
	require.NoError(t, err)
	assert.Len(t, hist, 3)
	assert.Len(t, hist["Business"], 15)

	_, err = NewCollector(failingFetcher{}, nil).Collect()
	assert.ErrorContains(t, err, "connection refused")
}
