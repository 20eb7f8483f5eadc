// Package atlas stores per-country commodity profiles.
package atlas

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/storage"
)

var (
	ErrNotFound     = errors.New("country not found")
	ErrUnauthorized = errors.New("admin password required")
	ErrInvalidISO   = errors.New("iso_a3 must be a three-letter code")
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS country_data (
		iso_a3       TEXT PRIMARY KEY,
		country      TEXT,
		commodities  TEXT,
		export_value TEXT,
		co2          TEXT,
		link         TEXT,
		notes        TEXT
	)`,
}

var seed = []model.CountryProfile{
	{ISOA3: "ZAF", Country: "South Africa", Commodities: "Gold; Platinum; Coal", ExportValue: "Gold: 25.9B; Platinum: 13.8B", CO2: "6.5", Link: "https://www.mineralscouncil.org.za/", Notes: "Highly industrialised mining sector"},
	{ISOA3: "GHA", Country: "Ghana", Commodities: "Gold; Cocoa; Timber", ExportValue: "Gold: 15.6B; Cocoa: 1.5B", CO2: "1.5", Link: "https://www.mincom.gov.gh/", Notes: "Strong gold and cocoa exports"},
	{ISOA3: "NGA", Country: "Nigeria", Commodities: "Crude Oil; Cocoa", ExportValue: "Crude oil: 43.5B", CO2: "0.8", Link: "https://www.nnpcgroup.com/", Notes: "Oil dominates exports"},
}

// Store holds the atlas. Edits require the admin password; with no password
// configured the atlas is read-only.
type Store struct {
	db        *sql.DB
	adminPass string
	mu        sync.Mutex
}

// Open opens (or creates) the atlas database and seeds it when empty.
func Open(dbPath, adminPass string) (*Store, error) {
	db, err := storage.OpenSQLite(dbPath, schema)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, adminPass: adminPass}
	if err := s.seedIfEmpty(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed atlas: %w", err)
	}
	log.Printf("[INFO] commodity atlas opened: %s", dbPath)
	return s, nil
}

func (s *Store) seedIfEmpty(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM country_data`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, c := range seed {
		if err := s.upsert(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]model.CountryProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT iso_a3, country, commodities, export_value, co2, link, notes
		FROM country_data ORDER BY country`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var out []model.CountryProfile
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, iso string) (*model.CountryProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT iso_a3, country, commodities, export_value, co2, link, notes
		FROM country_data WHERE iso_a3 = ?`, normalizeISO(iso))
	c, err := scanCountry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", iso, err)
	}
	return c, nil
}

// Upsert inserts or replaces a country profile after checking pass.
func (s *Store) Upsert(ctx context.Context, pass string, c model.CountryProfile) error {
	if !s.authorized(pass) {
		return ErrUnauthorized
	}
	c.ISOA3 = normalizeISO(c.ISOA3)
	if len(c.ISOA3) != 3 {
		return ErrInvalidISO
	}
	return s.upsert(ctx, c)
}

func (s *Store) authorized(pass string) bool {
	if s.adminPass == "" || pass == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(pass), []byte(s.adminPass)) == 1
}

// EditingEnabled reports whether an admin password is configured.
func (s *Store) EditingEnabled() bool { return s.adminPass != "" }

func (s *Store) upsert(ctx context.Context, c model.CountryProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `INSERT INTO country_data
		(iso_a3, country, commodities, export_value, co2, link, notes)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(iso_a3) DO UPDATE SET
			country=excluded.country,
			commodities=excluded.commodities,
			export_value=excluded.export_value,
			co2=excluded.co2,
			link=excluded.link,
			notes=excluded.notes`,
		c.ISOA3, c.Country, c.Commodities, c.ExportValue, c.CO2, c.Link, c.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", c.ISOA3, err)
	}
	return nil
}

func (s *Store) Close() error {
	log.Println("[INFO] closing commodity atlas")
	return s.db.Close()
}

// Commodities splits a semicolon-separated commodity list.
func Commodities(c model.CountryProfile) []string {
	var out []string
	for _, part := range strings.Split(c.Commodities, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCountry(sc scanner) (*model.CountryProfile, error) {
	var (
		c                                   model.CountryProfile
		country, comm, exp, co2, link, note sql.NullString
	)
	if err := sc.Scan(&c.ISOA3, &country, &comm, &exp, &co2, &link, &note); err != nil {
		return nil, err
	}
	c.Country, c.Commodities, c.ExportValue = country.String, comm.String, exp.String
	c.CO2, c.Link, c.Notes = co2.String, link.String, note.String
	return &c, nil
}

func normalizeISO(iso string) string {
	return strings.ToUpper(strings.TrimSpace(iso))
}
