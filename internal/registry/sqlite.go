package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"

	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/storage"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		name               TEXT,
		description        TEXT,
		industry           TEXT,
		baseline_intensity REAL,
		output_tonnes      REAL,
		actual_emissions   REAL,
		leakage            REAL,
		estimated_credits  REAL
	)`,
}

const projectColumns = `id, name, description, industry, baseline_intensity,
	output_tonnes, actual_emissions, leakage, estimated_credits`

// SQLiteStore keeps projects in the projects table.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the registry database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := storage.OpenSQLite(dbPath, schema)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] project registry opened: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, p *model.Project) error {
	if err := prepare(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO projects
		(name, description, industry, baseline_intensity, output_tonnes,
		 actual_emissions, leakage, estimated_credits)
		VALUES (?,?,?,?,?,?,?,?)`,
		p.Name, p.Description, p.Industry, p.BaselineIntensity, p.OutputTonnes,
		p.ActualEmissions, p.Leakage, p.EstimatedCredits,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]model.Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Update(ctx context.Context, p *model.Project) error {
	if err := prepare(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE projects
		SET name=?, description=?, industry=?, baseline_intensity=?, output_tonnes=?,
		    actual_emissions=?, leakage=?, estimated_credits=?
		WHERE id=?`,
		p.Name, p.Description, p.Industry, p.BaselineIntensity, p.OutputTonnes,
		p.ActualEmissions, p.Leakage, p.EstimatedCredits, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update project %d: %w", p.ID, err)
	}
	return expectOne(res)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete project %d: %w", id, err)
	}
	return expectOne(res)
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing project registry")
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(sc scanner) (*model.Project, error) {
	var (
		p                    model.Project
		name, desc, industry sql.NullString
	)
	err := sc.Scan(&p.ID, &name, &desc, &industry, &p.BaselineIntensity,
		&p.OutputTonnes, &p.ActualEmissions, &p.Leakage, &p.EstimatedCredits)
	if err != nil {
		return nil, err
	}
	p.Name, p.Description, p.Industry = name.String, desc.String, industry.String
	return &p, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
