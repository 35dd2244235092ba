package audit

import (
	"log"
	"time"
)

// Manager ties the audit DB to one console sitting.
type Manager struct {
	db      *DB
	sitting *Sitting
}

// NewManager opens the audit database at dbPath, e.g. ".mrv/audit.db".
func NewManager(dbPath string) (*Manager, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, err
	}
	return &Manager{db: db}, nil
}

// StartSitting begins a new audited sitting for the reviewer.
func (m *Manager) StartSitting(reviewer string) error {
	sitting, err := m.db.StartSitting(reviewer)
	if err != nil {
		return err
	}
	m.sitting = sitting
	return nil
}

// CurrentSitting returns the active sitting, if any.
func (m *Manager) CurrentSitting() *Sitting {
	return m.sitting
}

// Record logs one review decision and bumps the sitting counters. Counter
// persistence failures are logged, not fatal; the action row is the record
// that matters.
func (m *Manager) Record(reportID, outcome, reviewer, notes string) error {
	action := &Action{
		ReportID:  reportID,
		Outcome:   outcome,
		Reviewer:  reviewer,
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	if err := m.db.CreateAction(action); err != nil {
		return err
	}

	if m.sitting != nil {
		m.sitting.ItemsReviewed++
		switch outcome {
		case OutcomeApproved:
			m.sitting.ItemsApproved++
		case OutcomeRejected:
			m.sitting.ItemsRejected++
		case OutcomeEdited:
			m.sitting.ItemsEdited++
		}

		if err := m.db.UpdateSittingCounters(m.sitting); err != nil {
			log.Printf("Warning: failed to update sitting counters: %v", err)
		}
	}

	return nil
}

// Complete closes out the active sitting.
func (m *Manager) Complete() error {
	if m.sitting == nil {
		return nil
	}
	return m.db.CompleteSitting(m.sitting)
}

// Close releases the underlying database.
func (m *Manager) Close() error {
	return m.db.Close()
}
