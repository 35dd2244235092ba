package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ToastDuration is how long a toast stays up without manual dismissal.
const ToastDuration = 3500 * time.Millisecond

// ToastKind selects a toast's visual treatment.
type ToastKind int

const (
	ToastInfo ToastKind = iota
	ToastSuccess
	ToastError
)

// toastExpiredMsg fires when a toast's dismiss timer elapses. It carries
// the sequence number of the toast it was armed for.
type toastExpiredMsg struct {
	seq uint64
}

// ToastModel shows at most one transient notification. Showing a new toast
// pre-empts the current one; each Show bumps a sequence number so that a
// timer armed for an earlier toast expires as a no-op instead of clearing
// its replacement.
type ToastModel struct {
	message string
	kind    ToastKind
	visible bool
	seq     uint64
}

// Show replaces any visible toast and returns the command that arms its
// auto-dismiss timer.
func (t *ToastModel) Show(message string, kind ToastKind) tea.Cmd {
	t.seq++
	t.message = message
	t.kind = kind
	t.visible = true

	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Dismiss clears the toast immediately. Any armed timer becomes stale and
// its eventual firing does nothing.
func (t *ToastModel) Dismiss() {
	t.seq++
	t.visible = false
	t.message = ""
}

// Update handles timer expiry. Stale timers (armed for a superseded toast)
// are ignored.
func (t *ToastModel) Update(msg tea.Msg) {
	if expired, ok := msg.(toastExpiredMsg); ok {
		if expired.seq == t.seq && t.visible {
			t.visible = false
			t.message = ""
		}
	}
}

// Visible reports whether a toast is currently shown.
func (t *ToastModel) Visible() bool {
	return t.visible
}

// Message returns the current toast text.
func (t *ToastModel) Message() string {
	return t.message
}

// Kind returns the current toast kind.
func (t *ToastModel) Kind() ToastKind {
	return t.kind
}

// View renders the toast line, empty when nothing is shown.
func (t *ToastModel) View() string {
	if !t.visible {
		return ""
	}

	var fg lipgloss.Color
	var icon string
	switch t.kind {
	case ToastSuccess:
		fg, icon = ColorSuccess, "✓"
	case ToastError:
		fg, icon = ColorDanger, "✗"
	default:
		fg, icon = ColorSecondary, "ℹ"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Bold(true).
		Render(icon + " " + t.message)
}
