package inbox

import "medreview/pkg/model"

// Patch is a partial update to a report. Nil fields are omitted from the
// PATCH body and left untouched by the local merge.
type Patch struct {
	Status        *model.Status `json:"status,omitempty"`
	Reason        *string       `json:"reason,omitempty"`
	AIExplanation *string       `json:"aiExplanation,omitempty"`
}

// StatusPatch builds a patch that moves a report to the given status.
// A REJECTED transition must carry the rejection reason.
func StatusPatch(status model.Status, reason string) Patch {
	p := Patch{Status: &status}
	if status == model.StatusRejected {
		p.Reason = &reason
	}
	return p
}

// ExplanationPatch builds a patch that replaces the AI explanation.
func ExplanationPatch(text string) Patch {
	return Patch{AIExplanation: &text}
}

// apply merges the patch into the report in place. Findings,
// recommendations and uncertainties are never touched; an approval does not
// clear a previously recorded rejection reason.
func (p Patch) apply(r *model.Report) {
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Reason != nil {
		r.RejectionReason = *p.Reason
	}
	if p.AIExplanation != nil {
		r.AIExplanation = *p.AIExplanation
	}
}
