package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// pendingAction identifies which guarded action a confirmation gate is
// holding. At most one gate is open at a time; the dashboard routes all
// input to it while open.
type pendingAction int

const (
	actionNone pendingAction = iota
	actionApprove
	actionReject
	actionSave
)

// ConfirmModel is a generic confirmation gate: the guarded action takes
// effect only on explicit confirm. Cancel and Esc close the gate and
// discard its context.
type ConfirmModel struct {
	action    pendingAction
	title     string
	body      string
	confirmed bool
	cancelled bool
	accent    lipgloss.Color
}

// NewConfirmModel opens a confirmation gate for the given action.
func NewConfirmModel(action pendingAction, title, body string, accent lipgloss.Color) ConfirmModel {
	return ConfirmModel{
		action: action,
		title:  title,
		body:   body,
		accent: accent,
	}
}

// Update handles gate input: enter/y confirms, esc/n cancels.
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "y":
			m.confirmed = true
		case "esc", "n":
			m.cancelled = true
		}
	}
	return m, nil
}

// IsConfirmed returns true once the user confirmed.
func (m ConfirmModel) IsConfirmed() bool {
	return m.confirmed
}

// IsCancelled returns true once the user cancelled or dismissed.
func (m ConfirmModel) IsCancelled() bool {
	return m.cancelled
}

// Action returns the guarded action.
func (m ConfirmModel) Action() pendingAction {
	return m.action
}

// View renders the gate as a centered modal box.
func (m ConfirmModel) View() string {
	width := 50

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.accent).
		Width(width - 8).
		Align(lipgloss.Center)
	bodyStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
	hintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")
	for _, line := range wrapTextLines(m.body, width-8) {
		b.WriteString(bodyStyle.Render(line) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("[Enter/y] Confirm  [Esc/n] Cancel"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.accent).
		Padding(1, 3).
		Width(width)

	return boxStyle.Render(b.String())
}
