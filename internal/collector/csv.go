package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"CarbonCompendium/internal/model"
)

// CSVFetcher reads tariff history from a local CSV file with the header
// year,sector,price,co2_kg_per_kwh.
type CSVFetcher struct {
	Path string
}

func NewCSVFetcher(path string) *CSVFetcher { return &CSVFetcher{Path: path} }

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchHistory(sector string) ([]model.TariffPoint, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open tariff csv: %w", err)
	}
	defer file.Close()

	all, err := ParseTariffCSV(file)
	if err != nil {
		return nil, err
	}
	var points []model.TariffPoint
	for _, p := range all {
		if strings.EqualFold(p.Sector, sector) {
			points = append(points, p)
		}
	}
	sortByYear(points)
	return points, nil
}

// ParseTariffCSV decodes every row of a tariff CSV. Columns are located by
// header name, so their order is free.
func ParseTariffCSV(r io.Reader) ([]model.TariffPoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"year", "sector", "price", "co2_kg_per_kwh"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv missing column %q", name)
		}
	}

	var points []model.TariffPoint
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(rec[col["year"]]))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: year: %w", line, err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(rec[col["price"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: price: %w", line, err)
		}
		co2, err := strconv.ParseFloat(strings.TrimSpace(rec[col["co2_kg_per_kwh"]]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: co2: %w", line, err)
		}
		points = append(points, model.TariffPoint{
			Year:        year,
			Sector:      strings.TrimSpace(rec[col["sector"]]),
			Price:       price,
			CO2KgPerKWh: co2,
		})
	}
	return points, nil
}
