package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/storage"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS simulation_runs (
		id                TEXT PRIMARY KEY,
		timestamp         INTEGER NOT NULL,
		source            TEXT NOT NULL,
		name              TEXT,
		seed              INTEGER,
		trials            INTEGER,
		mean_npv          REAL,
		prob_npv_positive REAL,
		config            TEXT NOT NULL,
		summary           TEXT NOT NULL,
		sensitivity       TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_ts ON simulation_runs(timestamp)`,
}

// SQLiteRecorder persists simulation runs to a SQLite database.
// Config, summary and sensitivity are stored as JSON columns; the headline
// numbers are duplicated into plain columns for ad-hoc queries.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := storage.OpenSQLite(dbPath, schema)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return &SQLiteRecorder{db: db}, nil
}

// RecordRun stores run, filling in its ID and timestamp when unset.
func (r *SQLiteRecorder) RecordRun(ctx context.Context, run *model.RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	cfg, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	sum, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	sens, err := json.Marshal(run.Sensitivity)
	if err != nil {
		return fmt.Errorf("marshal sensitivity: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `INSERT INTO simulation_runs
		(id, timestamp, source, name, seed, trials, mean_npv, prob_npv_positive,
		 config, summary, sensitivity)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.CreatedAt.UnixMilli(), run.Source, run.Name, run.Seed,
		run.Summary.Trials, run.Summary.MeanNPV, run.Summary.ProbNPVPositive,
		string(cfg), string(sum), string(sens),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (r *SQLiteRecorder) Recent(ctx context.Context, limit int) ([]model.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, timestamp, source, name, seed, config, summary, sensitivity
		FROM simulation_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunRecord
	for rows.Next() {
		var (
			run        model.RunRecord
			ts         int64
			name, sens sql.NullString
			cfg, sum   string
		)
		if err := rows.Scan(&run.ID, &ts, &run.Source, &name, &run.Seed, &cfg, &sum, &sens); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Name = name.String
		run.CreatedAt = time.UnixMilli(ts)
		if err := json.Unmarshal([]byte(cfg), &run.Config); err != nil {
			return nil, fmt.Errorf("decode config of %s: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(sum), &run.Summary); err != nil {
			return nil, fmt.Errorf("decode summary of %s: %w", run.ID, err)
		}
		if sens.Valid && sens.String != "" {
			if err := json.Unmarshal([]byte(sens.String), &run.Sensitivity); err != nil {
				return nil, fmt.Errorf("decode sensitivity of %s: %w", run.ID, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
