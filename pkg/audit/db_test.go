package audit

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "audit.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBCreatesDirectory(t *testing.T) {
	// openTestDB points at a nested path that does not exist yet.
	openTestDB(t)
}

func TestCreateAndListActions(t *testing.T) {
	db := openTestDB(t)

	first := &Action{
		ReportID:  "an-1",
		Outcome:   OutcomeRejected,
		Reviewer:  "dr-lee",
		Notes:     "inconsistent lab values",
		CreatedAt: time.Now().Add(-time.Minute),
	}
	if err := db.CreateAction(first); err != nil {
		t.Fatalf("CreateAction: %v", err)
	}
	if first.ID == 0 {
		t.Error("expected ID to be assigned")
	}

	second := &Action{
		ReportID:  "an-1",
		Outcome:   OutcomeApproved,
		Reviewer:  "dr-lee",
		CreatedAt: time.Now(),
	}
	if err := db.CreateAction(second); err != nil {
		t.Fatalf("CreateAction: %v", err)
	}

	actions, err := db.ActionsForReport("an-1")
	if err != nil {
		t.Fatalf("ActionsForReport: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("got %d actions", len(actions))
	}
	if actions[0].Outcome != OutcomeApproved {
		t.Errorf("newest first: got %q", actions[0].Outcome)
	}
	if actions[1].Notes != "inconsistent lab values" {
		t.Errorf("notes = %q", actions[1].Notes)
	}

	other, err := db.ActionsForReport("an-other")
	if err != nil {
		t.Fatalf("ActionsForReport: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no actions for other report, got %d", len(other))
	}
}

func TestSittingLifecycle(t *testing.T) {
	db := openTestDB(t)

	s, err := db.StartSitting("dr-lee")
	if err != nil {
		t.Fatalf("StartSitting: %v", err)
	}
	if s.ID == 0 {
		t.Error("expected sitting ID")
	}

	s.ItemsReviewed = 3
	s.ItemsApproved = 2
	s.ItemsRejected = 1
	if err := db.UpdateSittingCounters(s); err != nil {
		t.Fatalf("UpdateSittingCounters: %v", err)
	}

	loaded, err := db.GetSitting(s.ID)
	if err != nil {
		t.Fatalf("GetSitting: %v", err)
	}
	if loaded.ItemsReviewed != 3 || loaded.ItemsApproved != 2 || loaded.ItemsRejected != 1 {
		t.Errorf("counters = %+v", loaded)
	}
	if loaded.CompletedAt != nil {
		t.Error("sitting should not be completed yet")
	}

	if err := db.CompleteSitting(s); err != nil {
		t.Fatalf("CompleteSitting: %v", err)
	}
	loaded, err = db.GetSitting(s.ID)
	if err != nil {
		t.Fatalf("GetSitting: %v", err)
	}
	if loaded.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}
}

func TestManagerRecordBumpsCounters(t *testing.T) {
	m, err := NewManager(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	if err := m.StartSitting("dr-lee"); err != nil {
		t.Fatalf("StartSitting: %v", err)
	}

	if err := m.Record("an-1", OutcomeApproved, "dr-lee", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := m.Record("an-2", OutcomeRejected, "dr-lee", "wrong patient"); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := m.Record("an-2", OutcomeEdited, "dr-lee", ""); err != nil {
		t.Fatalf("Record: %v", err)
	}

	s := m.CurrentSitting()
	if s.ItemsReviewed != 3 || s.ItemsApproved != 1 || s.ItemsRejected != 1 || s.ItemsEdited != 1 {
		t.Errorf("counters = %+v", s)
	}

	if err := m.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}
}
