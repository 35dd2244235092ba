package model

import (
	"testing"
	"time"
)

func sampleReport() Report {
	return Report{
		ID:               "rep-1",
		PatientID:        "P-1001",
		PatientName:      "Alice Wong",
		Age:              "54",
		MedicalCondition: "Type 2 Diabetes",
		Timestamp:        time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		AIConfidence:     91,
		Status:           StatusPending,
		Priority:         PriorityHigh,
		Findings: []Finding{
			{Label: "HbA1c", Value: "8.2%", NormalRange: "4.0-5.6%", Status: FindingAbnormal},
		},
		AIExplanation:   "Elevated HbA1c consistent with poor glycemic control.",
		Recommendations: []string{"Adjust metformin dosage"},
		Uncertainties:   []string{"Recent medication adherence unknown"},
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := sampleReport()
	clone := orig.Clone()

	clone.Findings[0].Value = "changed"
	clone.Recommendations[0] = "changed"
	clone.Uncertainties[0] = "changed"
	clone.AIExplanation = "changed"

	if orig.Findings[0].Value != "8.2%" {
		t.Errorf("clone shares findings slice with original")
	}
	if orig.Recommendations[0] != "Adjust metformin dosage" {
		t.Errorf("clone shares recommendations slice with original")
	}
	if orig.Uncertainties[0] != "Recent medication adherence unknown" {
		t.Errorf("clone shares uncertainties slice with original")
	}
	if orig.AIExplanation == "changed" {
		t.Errorf("clone shares explanation with original")
	}
}

func TestValidate(t *testing.T) {
	r := sampleReport()
	if err := r.Validate(); err != nil {
		t.Errorf("valid report failed validation: %v", err)
	}

	noID := sampleReport()
	noID.ID = ""
	if err := noID.Validate(); err == nil {
		t.Error("expected error for missing ID")
	}

	badStatus := sampleReport()
	badStatus.Status = Status("UNKNOWN")
	if err := badStatus.Validate(); err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusVerified, StatusRejected} {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Status("verified").IsValid() {
		t.Error("status values are uppercase, lowercase should be invalid")
	}
	if Status("").IsValid() {
		t.Error("empty status should be invalid")
	}
}

func TestComputeStats(t *testing.T) {
	reports := []Report{
		{ID: "a", Status: StatusPending, Priority: PriorityHigh},
		{ID: "b", Status: StatusPending, Priority: PriorityLow},
		{ID: "c", Status: StatusVerified, Priority: PriorityHigh},
		{ID: "d", Status: StatusRejected, Priority: PriorityMedium},
	}

	s := ComputeStats(reports)
	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.Pending != 2 {
		t.Errorf("Pending = %d, want 2", s.Pending)
	}
	if s.Verified != 1 {
		t.Errorf("Verified = %d, want 1", s.Verified)
	}
	if s.Rejected != 1 {
		t.Errorf("Rejected = %d, want 1", s.Rejected)
	}
	// High priority counts only reports still awaiting review.
	if s.HighPriority != 1 {
		t.Errorf("HighPriority = %d, want 1", s.HighPriority)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)
	if s.Total != 0 || s.Pending != 0 || s.HighPriority != 0 {
		t.Errorf("empty collection should produce zero stats, got %+v", s)
	}
}
