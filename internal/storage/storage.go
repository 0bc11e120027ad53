// Package storage provides typed SQLite repositories, one per entity
// family. Handlers depend on these types; the aggregation core only ever
// sees plain slices of records.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row, so callers can tell
// "legitimately absent" from a query failure.
var ErrNotFound = errors.New("record not found")

// Store owns the database handle and hands out repositories.
type Store struct {
	db *sql.DB

	Budget     *BudgetRepository
	Crops      *CropRepository
	Harvests   *HarvestRepository
	Polls      *PollRepository
	Feedback   *FeedbackRepository
	Volunteers *VolunteerRepository
	Tasks      *TaskRepository
	Photos     *PhotoRepository
	Users      *UserRepository
	Location   *LocationRepository
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{db: db}
	s.Budget = &BudgetRepository{db: db}
	s.Crops = &CropRepository{db: db}
	s.Harvests = &HarvestRepository{db: db}
	s.Polls = &PollRepository{db: db}
	s.Feedback = &FeedbackRepository{db: db}
	s.Volunteers = &VolunteerRepository{db: db}
	s.Tasks = &TaskRepository{db: db}
	s.Photos = &PhotoRepository{db: db}
	s.Users = &UserRepository{db: db}
	s.Location = &LocationRepository{db: db}
	return s, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Dates are stored as RFC 3339 text to keep the schema driver-agnostic.
func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
