// Package glossary is the searchable carbon-markets glossary.
package glossary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"CarbonCompendium/internal/model"
	"CarbonCompendium/internal/storage"
)

// AllCategories disables category filtering.
const AllCategories = "All"

var ErrTermMissing = errors.New("glossary term is required")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS glossary (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		term            TEXT NOT NULL,
		category        TEXT,
		definition      TEXT,
		example         TEXT,
		greenwash_watch TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_glossary_category ON glossary(category)`,
}

// The full-text index is optional; search falls back to LIKE without it.
var ftsSchema = []string{
	`CREATE VIRTUAL TABLE IF NOT EXISTS glossary_fts USING fts5(
		term, definition, example, greenwash_watch,
		content='glossary', content_rowid='id'
	)`,
	`CREATE TRIGGER IF NOT EXISTS glossary_ai AFTER INSERT ON glossary BEGIN
		INSERT INTO glossary_fts(rowid, term, definition, example, greenwash_watch)
		VALUES (new.id, new.term, new.definition, new.example, new.greenwash_watch);
	END`,
}

const termColumns = `g.id, g.term, g.category, g.definition, g.example, g.greenwash_watch`

// Store holds glossary terms in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (or creates) the glossary database.
func Open(dbPath string) (*Store, error) {
	db, err := storage.OpenSQLite(dbPath, schema)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(db, ftsSchema); err != nil {
		log.Printf("[WARN] glossary full-text index unavailable, using LIKE search: %v", err)
	} else if _, err := db.Exec(`INSERT INTO glossary_fts(glossary_fts) VALUES('rebuild')`); err != nil {
		log.Printf("[WARN] rebuild glossary index: %v", err)
	}
	log.Printf("[INFO] glossary opened: %s", dbPath)
	return &Store{db: db}, nil
}

// Search finds terms matching query. It tries the full-text index first and
// falls back to substring matching when the index cannot serve the query.
func (s *Store) Search(ctx context.Context, query, category string) ([]model.GlossaryTerm, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.All(ctx, category)
	}

	terms, err := s.searchFTS(ctx, query, category)
	if err == nil {
		return terms, nil
	}
	return s.searchLike(ctx, query, category)
}

func (s *Store) searchFTS(ctx context.Context, query, category string) ([]model.GlossaryTerm, error) {
	phrase := `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
	q := `SELECT ` + termColumns + `
		FROM glossary g
		JOIN glossary_fts ON g.id = glossary_fts.rowid
		WHERE glossary_fts MATCH ?`
	args := []any{phrase}
	q, args = withCategory(q, args, category)
	return s.query(ctx, q+` ORDER BY g.term COLLATE NOCASE`, args...)
}

func (s *Store) searchLike(ctx context.Context, query, category string) ([]model.GlossaryTerm, error) {
	like := "%" + query + "%"
	q := `SELECT ` + termColumns + `
		FROM glossary g
		WHERE (g.term LIKE ? OR g.definition LIKE ? OR g.example LIKE ? OR g.greenwash_watch LIKE ?)`
	args := []any{like, like, like, like}
	q, args = withCategory(q, args, category)
	return s.query(ctx, q+` ORDER BY g.term COLLATE NOCASE`, args...)
}

// All lists every term in category, or every term for "" and "All".
func (s *Store) All(ctx context.Context, category string) ([]model.GlossaryTerm, error) {
	q := `SELECT ` + termColumns + ` FROM glossary g WHERE 1=1`
	q, args := withCategory(q, nil, category)
	return s.query(ctx, q+` ORDER BY g.term COLLATE NOCASE`, args...)
}

// Categories returns the distinct non-empty categories, sorted.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT category FROM glossary WHERE category IS NOT NULL AND category <> '' ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Add inserts a term and sets its ID.
func (s *Store) Add(ctx context.Context, t *model.GlossaryTerm) error {
	t.Term = strings.TrimSpace(t.Term)
	if t.Term == "" {
		return ErrTermMissing
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `INSERT INTO glossary
		(term, category, definition, example, greenwash_watch) VALUES (?,?,?,?,?)`,
		t.Term, t.Category, t.Definition, t.Example, t.GreenwashWatch)
	if err != nil {
		return fmt.Errorf("insert term %q: %w", t.Term, err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

// Seed loads a YAML list of terms from path and adds those not already
// present (compared case-insensitively). It returns the number added.
func (s *Store) Seed(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}
	var terms []model.GlossaryTerm
	if err := yaml.Unmarshal(data, &terms); err != nil {
		return 0, fmt.Errorf("parse seed file: %w", err)
	}

	added := 0
	for i := range terms {
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM glossary WHERE term = ? COLLATE NOCASE)`,
			strings.TrimSpace(terms[i].Term)).Scan(&exists)
		if err != nil {
			return added, fmt.Errorf("check term %q: %w", terms[i].Term, err)
		}
		if exists {
			continue
		}
		if err := s.Add(ctx, &terms[i]); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

func (s *Store) Close() error {
	log.Println("[INFO] closing glossary")
	return s.db.Close()
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.GlossaryTerm, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GlossaryTerm
	for rows.Next() {
		var (
			t                       model.GlossaryTerm
			cat, def, ex, greenwash sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Term, &cat, &def, &ex, &greenwash); err != nil {
			return nil, err
		}
		t.Category, t.Definition, t.Example, t.GreenwashWatch = cat.String, def.String, ex.String, greenwash.String
		out = append(out, t)
	}
	return out, rows.Err()
}

func withCategory(q string, args []any, category string) (string, []any) {
	if category == "" || category == AllCategories {
		return q, args
	}
	return q + ` AND g.category = ?`, append(args, category)
}

// LetterGroup is a run of terms sharing an initial.
type LetterGroup struct {
	Letter string               `json:"letter"`
	Terms  []model.GlossaryTerm `json:"terms"`
}

// GroupByLetter sorts terms case-insensitively and groups them by the
// upper-cased first letter, "?" for an empty term.
func GroupByLetter(terms []model.GlossaryTerm) []LetterGroup {
	sorted := make([]model.GlossaryTerm, len(terms))
	copy(sorted, terms)
	sort.SliceStable(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Term) < strings.ToLower(sorted[j].Term)
	})

	var groups []LetterGroup
	for _, t := range sorted {
		letter := initial(t.Term)
		if n := len(groups); n > 0 && groups[n-1].Letter == letter {
			groups[n-1].Terms = append(groups[n-1].Terms, t)
			continue
		}
		groups = append(groups, LetterGroup{Letter: letter, Terms: []model.GlossaryTerm{t}})
	}
	return groups
}

func initial(term string) string {
	r, _ := utf8.DecodeRuneInString(term)
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}
