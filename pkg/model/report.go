package model

import (
	"fmt"
	"time"
)

// Report is one AI-generated medical analysis plus its review metadata.
// Identity is the ID assigned by the remote report store.
type Report struct {
	ID               string    `json:"id"`
	PatientID        string    `json:"patientId"`
	PatientName      string    `json:"patientName"`
	Age              string    `json:"age"`
	MedicalCondition string    `json:"medicalCondition"`
	Timestamp        time.Time `json:"timestamp"`
	AIConfidence     int       `json:"aiConfidence"`
	Status           Status    `json:"status"`
	Priority         Priority  `json:"priority"`
	Findings         []Finding `json:"findings,omitempty"`
	AIExplanation    string    `json:"aiExplanation"`
	Recommendations  []string  `json:"recommendations,omitempty"`
	Uncertainties    []string  `json:"uncertainties,omitempty"`
	RejectionReason  string    `json:"rejectionReason,omitempty"`

	// Local write-tracking, never sent to or taken from the store.
	// PendingWrite is set while an optimistic patch has not been confirmed;
	// Divergent is set when the remote patch failed and the local record is
	// known to disagree with the store until the next clean refresh.
	PendingWrite bool `json:"-"`
	Divergent    bool `json:"-"`
}

// Clone creates a deep copy of the report.
func (r Report) Clone() Report {
	clone := r

	if r.Findings != nil {
		clone.Findings = make([]Finding, len(r.Findings))
		copy(clone.Findings, r.Findings)
	}
	if r.Recommendations != nil {
		clone.Recommendations = make([]string, len(r.Recommendations))
		copy(clone.Recommendations, r.Recommendations)
	}
	if r.Uncertainties != nil {
		clone.Uncertainties = make([]string, len(r.Uncertainties))
		copy(clone.Uncertainties, r.Uncertainties)
	}

	return clone
}

// Validate checks if the report data is logically valid.
func (r *Report) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", r.Status)
	}
	if !r.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", r.Priority)
	}
	if r.AIConfidence < 0 || r.AIConfidence > 100 {
		return fmt.Errorf("confidence %d outside [0,100]", r.AIConfidence)
	}
	return nil
}

// Finding is one lab result row from the source analysis. Findings are an
// immutable snapshot; no review action rewrites them.
type Finding struct {
	Label       string        `json:"label"`
	Value       string        `json:"value"`
	NormalRange string        `json:"normalRange"`
	Status      FindingStatus `json:"status"`
}

// FindingStatus classifies a finding against its normal range.
type FindingStatus string

const (
	FindingNormal   FindingStatus = "normal"
	FindingAbnormal FindingStatus = "abnormal"
)

// Status represents the verification state of a report.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusVerified Status = "VERIFIED"
	StatusRejected Status = "REJECTED"
)

// IsValid returns true if the status is a recognized value.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// Label returns the human-readable form of the status.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusVerified:
		return "Verified"
	case StatusRejected:
		return "Rejected"
	}
	return string(s)
}

// Priority represents the triage urgency of a report.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// IsValid returns true if the priority is a recognized value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Label returns the human-readable form of the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	}
	return string(p)
}

// Sentinel values used when source data lacks patient context.
const (
	UnknownValue       = "N/A"
	UnknownPatientName = "Unknown Patient"
	NoSummary          = "No summary."
)
