package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"CarbonCompendium/internal/model"
)

// HTTPFetcher implements Fetcher against a JSON tariff REST endpoint.
type HTTPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(baseURL, apiKey, proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// tariffRow is the expected JSON shape from the tariff API.
type tariffRow struct {
	Year        int     `json:"year"`
	Sector      string  `json:"sector"`
	Price       float64 `json:"price"`
	CO2KgPerKWh float64 `json:"co2_kg_per_kwh"`
}

func (f *HTTPFetcher) FetchHistory(sector string) ([]model.TariffPoint, error) {
	endpoint := fmt.Sprintf("%s/api/v1/tariffs?sector=%s", f.BaseURL, url.QueryEscape(sector))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tariffs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch tariffs: status %d, body: %s", resp.StatusCode, string(body))
	}

	var rows []tariffRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode tariffs: %w", err)
	}
	points := make([]model.TariffPoint, 0, len(rows))
	for _, r := range rows {
		if r.Sector == "" {
			r.Sector = sector
		}
		if r.Sector != sector {
			continue
		}
		points = append(points, model.TariffPoint(r))
	}
	sortByYear(points)
	return points, nil
}

func sortByYear(points []model.TariffPoint) {
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
}
