package inbox

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"medreview/pkg/model"
)

// PriorityClassifier assigns a triage priority to a normalized analysis
// record. The store carries no per-report priority signal yet, so the
// classifier is pluggable; DefaultPriorityClassifier stands in until a real
// signal exists upstream.
type PriorityClassifier func(analysis gjson.Result) model.Priority

// DefaultPriorityClassifier marks every report HIGH.
func DefaultPriorityClassifier(gjson.Result) model.Priority {
	return model.PriorityHigh
}

// NormalizeRecord maps one raw inbox record into a Report. Raw records are
// loosely shaped: the analysis payload may live under "result" or at the top
// level, and patient context and AI response blocks may be absent entirely.
// Every field gets a defined value; status and priority are always members
// of their enums afterwards.
func NormalizeRecord(record gjson.Result, classify PriorityClassifier, now time.Time) model.Report {
	if classify == nil {
		classify = DefaultPriorityClassifier
	}

	// A literal JSON null under "result" falls back to the record too.
	analysis := record.Get("result")
	if !analysis.Exists() || analysis.Type == gjson.Null {
		analysis = record
	}
	patient := analysis.Get("patientContext")
	aiResponse := analysis.Get("aiResponse")

	r := model.Report{
		ID:               analysis.Get("analysisId").String(),
		PatientID:        stringOr(patient.Get("uid"), model.UnknownValue),
		PatientName:      stringOr(patient.Get("name"), model.UnknownPatientName),
		Age:              stringOr(patient.Get("age"), model.UnknownValue),
		MedicalCondition: stringOr(patient.Get("condition"), model.UnknownValue),
		Timestamp:        timestampOr(analysis.Get("processedAt"), now),
		AIConfidence:     clampConfidence(analysis.Get("confidence").Int()),
		Status:           normalizeStatus(record.Get("verificationStatus")),
		Priority:         classify(analysis),
		AIExplanation:    normalizeExplanation(aiResponse, analysis),
		RejectionReason:  record.Get("rejectionReason").String(),
	}

	analysis.Get("findings").ForEach(func(_, f gjson.Result) bool {
		r.Findings = append(r.Findings, model.Finding{
			Label:       f.Get("label").String(),
			Value:       f.Get("value").String(),
			NormalRange: f.Get("normalRange").String(),
			Status:      normalizeFindingStatus(f.Get("status").String()),
		})
		return true
	})

	analysis.Get("recommendations").ForEach(func(_, rec gjson.Result) bool {
		r.Recommendations = append(r.Recommendations, flattenRecommendation(rec))
		return true
	})

	analysis.Get("uncertainties").ForEach(func(_, u gjson.Result) bool {
		r.Uncertainties = append(r.Uncertainties, u.String())
		return true
	})

	return r
}

func stringOr(v gjson.Result, fallback string) string {
	if !v.Exists() || v.String() == "" {
		return fallback
	}
	return v.String()
}

// timestampLayouts covers the store's timestamp shapes: RFC3339 and the
// naive ISO form it emits without a UTC offset.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
}

func timestampOr(v gjson.Result, now time.Time) time.Time {
	if v.Exists() {
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v.String()); err == nil {
				return ts
			}
		}
	}
	return now
}

func clampConfidence(v int64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// normalizeStatus trusts the persisted verification status; it is never
// re-derived from confidence or findings. Anything unrecognized maps to
// PENDING so the record re-enters the queue rather than vanishing.
func normalizeStatus(v gjson.Result) model.Status {
	s := model.Status(v.String())
	if !s.IsValid() {
		return model.StatusPending
	}
	return s
}

func normalizeFindingStatus(s string) model.FindingStatus {
	if strings.EqualFold(s, string(model.FindingNormal)) {
		return model.FindingNormal
	}
	return model.FindingAbnormal
}

// normalizeExplanation prefers the clinical interpretation, then the plain
// analysis text, then a literal placeholder.
func normalizeExplanation(aiResponse, analysis gjson.Result) string {
	if v := aiResponse.Get("clinical_interpretation"); v.Exists() && v.String() != "" {
		return v.String()
	}
	if v := analysis.Get("analysis"); v.Exists() && v.String() != "" {
		return v.String()
	}
	return model.NoSummary
}

// flattenRecommendation turns a {title, description} pair into one display
// string. Plain string entries pass through untouched.
func flattenRecommendation(rec gjson.Result) string {
	title := rec.Get("title")
	desc := rec.Get("description")
	if title.Exists() || desc.Exists() {
		return title.String() + ": " + desc.String()
	}
	return rec.String()
}
