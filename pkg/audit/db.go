// Package audit keeps a local trail of review decisions: every approve,
// reject and explanation edit, plus per-sitting counters. The remote store
// holds the authoritative status; the audit DB records who did what from
// this console.
package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Action is a single recorded review decision.
type Action struct {
	ID        int64     `json:"id"`
	ReportID  string    `json:"report_id"`
	Outcome   string    `json:"outcome"` // approved, rejected, edited
	Reviewer  string    `json:"reviewer"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Sitting groups the actions taken during one console session.
type Sitting struct {
	ID            int64      `json:"id"`
	Reviewer      string     `json:"reviewer"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ItemsReviewed int        `json:"items_reviewed"`
	ItemsApproved int        `json:"items_approved"`
	ItemsRejected int        `json:"items_rejected"`
	ItemsEdited   int        `json:"items_edited"`
}

// Action outcome constants.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
	OutcomeEdited   = "edited"
)

// DB handles audit data persistence.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the audit database at the given path.
func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	adb := &DB{db: db}
	if err := adb.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return adb, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS review_actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_id TEXT NOT NULL,
		outcome TEXT NOT NULL,
		reviewer TEXT NOT NULL,
		notes TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_actions_report_id ON review_actions(report_id);

	CREATE TABLE IF NOT EXISTS review_sittings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reviewer TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		completed_at DATETIME,
		items_reviewed INTEGER DEFAULT 0,
		items_approved INTEGER DEFAULT 0,
		items_rejected INTEGER DEFAULT 0,
		items_edited INTEGER DEFAULT 0
	);
	`

	_, err := d.db.Exec(schema)
	return err
}

// CreateAction inserts a new action record.
func (d *DB) CreateAction(a *Action) error {
	result, err := d.db.Exec(`
		INSERT INTO review_actions (report_id, outcome, reviewer, notes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, a.ReportID, a.Outcome, a.Reviewer, a.Notes, a.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = id
	return nil
}

// ActionsForReport returns all recorded actions for a report, newest first.
func (d *DB) ActionsForReport(reportID string) ([]Action, error) {
	rows, err := d.db.Query(`
		SELECT id, report_id, outcome, reviewer, notes, created_at
		FROM review_actions
		WHERE report_id = ?
		ORDER BY created_at DESC
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var a Action
		if err := rows.Scan(&a.ID, &a.ReportID, &a.Outcome, &a.Reviewer, &a.Notes, &a.CreatedAt); err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

// StartSitting creates a new sitting row.
func (d *DB) StartSitting(reviewer string) (*Sitting, error) {
	now := time.Now()
	result, err := d.db.Exec(`
		INSERT INTO review_sittings (reviewer, started_at)
		VALUES (?, ?)
	`, reviewer, now)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &Sitting{
		ID:        id,
		Reviewer:  reviewer,
		StartedAt: now,
	}, nil
}

// UpdateSittingCounters writes the current counters for a sitting.
func (d *DB) UpdateSittingCounters(s *Sitting) error {
	_, err := d.db.Exec(`
		UPDATE review_sittings
		SET items_reviewed = ?, items_approved = ?, items_rejected = ?, items_edited = ?
		WHERE id = ?
	`, s.ItemsReviewed, s.ItemsApproved, s.ItemsRejected, s.ItemsEdited, s.ID)
	return err
}

// CompleteSitting marks a sitting as finished.
func (d *DB) CompleteSitting(s *Sitting) error {
	now := time.Now()
	s.CompletedAt = &now
	_, err := d.db.Exec(`
		UPDATE review_sittings
		SET completed_at = ?, items_reviewed = ?, items_approved = ?, items_rejected = ?, items_edited = ?
		WHERE id = ?
	`, now, s.ItemsReviewed, s.ItemsApproved, s.ItemsRejected, s.ItemsEdited, s.ID)
	return err
}

// GetSitting retrieves a sitting by ID.
func (d *DB) GetSitting(id int64) (*Sitting, error) {
	var s Sitting
	var completedAt sql.NullTime
	err := d.db.QueryRow(`
		SELECT id, reviewer, started_at, completed_at, items_reviewed, items_approved, items_rejected, items_edited
		FROM review_sittings
		WHERE id = ?
	`, id).Scan(&s.ID, &s.Reviewer, &s.StartedAt, &completedAt, &s.ItemsReviewed, &s.ItemsApproved, &s.ItemsRejected, &s.ItemsEdited)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return &s, nil
}
