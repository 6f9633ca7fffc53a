package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ITKKhan/HorrorWatchBot/internal/models"
)

// Document names used in the store
const (
	docLibrary      = "library"
	docSchedule     = "schedule"
	docWatchparties = "watchparties"
)

// DefaultWatchparties seeds the category list when none has been saved
var DefaultWatchparties = []string{"Horror", "Anime", "SciFi"}

// Repository stores whole JSON documents in SQLite, one row per
// document. All reads and writes are document-granular: a missing row is
// an empty document, never an error.
type Repository struct {
	db *sql.DB
}

// New creates a new Repository backed by the SQLite file at dbPath
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		return nil, err
	}
	return repo, nil
}

// NewWithDB creates a Repository around an existing database handle.
// Used by tests that drive the store with a mock connection.
func NewWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate creates the documents table
func (r *Repository) migrate() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}
	return nil
}

// loadDocument reads one document into v. A missing document leaves v
// untouched and returns found=false.
func (r *Repository) loadDocument(ctx context.Context, name string, v interface{}) (bool, error) {
	var body string
	err := r.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE name = ?", name).Scan(&body)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: load %s: %v", ErrUnavailable, name, err)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, name, err)
	}
	return true, nil
}

// saveDocument writes one whole document, replacing any prior version
func (r *Repository) saveDocument(ctx context.Context, name string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, name, err)
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at",
		name, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: save %s: %v", ErrUnavailable, name, err)
	}
	return nil
}

// LoadLibrary loads the movie library document
func (r *Repository) LoadLibrary(ctx context.Context) (models.Library, error) {
	lib := models.Library{}
	if _, err := r.loadDocument(ctx, docLibrary, &lib); err != nil {
		return nil, err
	}
	return lib, nil
}

// SaveLibrary writes the whole movie library document back
func (r *Repository) SaveLibrary(ctx context.Context, lib models.Library) error {
	return r.saveDocument(ctx, docLibrary, lib)
}

// LoadSchedule loads the watchparty schedule document
func (r *Repository) LoadSchedule(ctx context.Context) (models.Schedule, error) {
	sched := models.Schedule{}
	if _, err := r.loadDocument(ctx, docSchedule, &sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// SaveSchedule writes the whole schedule document back
func (r *Repository) SaveSchedule(ctx context.Context, sched models.Schedule) error {
	return r.saveDocument(ctx, docSchedule, sched)
}

// ListWatchparties returns the configured watchparty categories,
// falling back to the default set when none have been saved.
func (r *Repository) ListWatchparties(ctx context.Context) ([]string, error) {
	var parties []string
	found, err := r.loadDocument(ctx, docWatchparties, &parties)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]string(nil), DefaultWatchparties...), nil
	}
	return parties, nil
}

// SaveWatchparties replaces the watchparty category list
func (r *Repository) SaveWatchparties(ctx context.Context, parties []string) error {
	return r.saveDocument(ctx, docWatchparties, parties)
}
