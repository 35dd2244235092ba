package ui

import (
	"strings"
	"testing"
)

func TestToastShowAndExpire(t *testing.T) {
	var toast ToastModel

	cmd := toast.Show("Report approved successfully", ToastSuccess)
	if cmd == nil {
		t.Fatal("Show must arm a dismiss timer")
	}
	if !toast.Visible() || toast.Message() != "Report approved successfully" {
		t.Errorf("toast = %q visible=%v", toast.Message(), toast.Visible())
	}

	toast.Update(toastExpiredMsg{seq: toast.seq})
	if toast.Visible() {
		t.Error("toast should clear when its own timer fires")
	}
}

func TestToastPreemptionIgnoresStaleTimer(t *testing.T) {
	var toast ToastModel

	toast.Show("first", ToastInfo)
	staleSeq := toast.seq
	toast.Show("second", ToastError)

	// The first toast's timer fires after pre-emption; it must not clear
	// the replacement.
	toast.Update(toastExpiredMsg{seq: staleSeq})
	if !toast.Visible() || toast.Message() != "second" {
		t.Errorf("stale timer cleared the active toast: %q", toast.Message())
	}

	toast.Update(toastExpiredMsg{seq: toast.seq})
	if toast.Visible() {
		t.Error("current timer should clear the toast")
	}
}

func TestToastManualDismiss(t *testing.T) {
	var toast ToastModel

	toast.Show("notice", ToastInfo)
	armed := toast.seq
	toast.Dismiss()
	if toast.Visible() {
		t.Error("Dismiss should hide the toast")
	}

	toast.Show("next", ToastSuccess)
	toast.Update(toastExpiredMsg{seq: armed})
	if !toast.Visible() {
		t.Error("timer armed before Dismiss must not clear a later toast")
	}
}

func TestToastView(t *testing.T) {
	var toast ToastModel
	if toast.View() != "" {
		t.Error("hidden toast renders empty")
	}
	toast.Show("saved", ToastSuccess)
	if !strings.Contains(toast.View(), "saved") {
		t.Errorf("view = %q", toast.View())
	}
}

func TestConfirmGate(t *testing.T) {
	gate := NewConfirmModel(actionApprove, "Approve", "Sure?", ColorSuccess)

	gate, _ = gate.Update(keyMsg("j"))
	if gate.IsConfirmed() || gate.IsCancelled() {
		t.Error("unrelated key settled the gate")
	}

	confirmed, _ := gate.Update(enterMsg())
	if !confirmed.IsConfirmed() {
		t.Error("enter should confirm")
	}
	if confirmed.Action() != actionApprove {
		t.Error("gate lost its action")
	}

	cancelled, _ := gate.Update(keyMsg("n"))
	if !cancelled.IsCancelled() {
		t.Error("n should cancel")
	}
}

func TestRejectInputBlankCannotSubmit(t *testing.T) {
	gate := NewRejectInputModel("Alice Wong", "r1")
	if gate.CanSubmit() {
		t.Error("empty reason should not be submittable")
	}

	gate, _ = gate.Update(keyMsg("   "))
	if gate.CanSubmit() {
		t.Error("whitespace-only reason should not be submittable")
	}

	gate, _ = gate.Update(ctrlS())
	if gate.IsSubmitted() {
		t.Error("submit with a blank reason must be ignored")
	}

	gate, _ = gate.Update(keyMsg("wrong patient attached"))
	if !gate.CanSubmit() {
		t.Error("non-blank reason should be submittable")
	}
	gate, _ = gate.Update(ctrlS())
	if !gate.IsSubmitted() {
		t.Error("expected submission")
	}
	if !strings.Contains(gate.Reason(), "wrong patient attached") {
		t.Errorf("reason = %q", gate.Reason())
	}
	if gate.ReportID() != "r1" {
		t.Errorf("report = %q", gate.ReportID())
	}
}

func TestRejectInputEscCancels(t *testing.T) {
	gate := NewRejectInputModel("Alice Wong", "r1")
	gate, _ = gate.Update(escMsg())
	if !gate.IsCancelled() {
		t.Error("esc should cancel")
	}
	if gate.IsSubmitted() {
		t.Error("cancelled gate must not report submission")
	}
}
