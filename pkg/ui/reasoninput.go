package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RejectInputModel is the confirmation gate for a rejection: it carries the
// mandatory reason draft. Submission stays unreachable while the reason is
// empty or whitespace-only.
type RejectInputModel struct {
	textarea    textarea.Model
	patientName string
	reportID    string
	width       int
	height      int

	// Result
	submitted bool
	cancelled bool
	reason    string
}

// NewRejectInputModel opens the rejection gate for one report.
func NewRejectInputModel(patientName, reportID string) RejectInputModel {
	ta := textarea.New()
	ta.Placeholder = "Enter rejection reason…"
	ta.Focus()
	ta.CharLimit = 1000
	ta.SetWidth(50)
	ta.SetHeight(4)

	return RejectInputModel{
		textarea:    ta,
		patientName: patientName,
		reportID:    reportID,
	}
}

// Init implements tea.Model.
func (m RejectInputModel) Init() tea.Cmd {
	return textarea.Blink
}

// CanSubmit reports whether the reason is non-blank.
func (m RejectInputModel) CanSubmit() bool {
	return strings.TrimSpace(m.textarea.Value()) != ""
}

// Update handles gate input. Esc cancels; ctrl+enter/ctrl+s/ctrl+j submits,
// but only once the reason is non-blank.
func (m RejectInputModel) Update(msg tea.Msg) (RejectInputModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.cancelled = true
			return m, nil
		case "ctrl+enter", "ctrl+s", "ctrl+j":
			// ctrl+j is alternate for terminals that don't support ctrl+enter
			if !m.CanSubmit() {
				return m, nil
			}
			m.submitted = true
			m.reason = m.textarea.Value()
			return m, nil
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the rejection gate.
func (m RejectInputModel) View() string {
	width := 60
	if m.width > 0 && m.width < 70 {
		width = m.width - 10
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorDanger).
		Width(width).
		Align(lipgloss.Center)
	promptStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
	hintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("✗ Reject Report"))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Reason for rejecting " + m.patientName + "'s report:"))
	b.WriteString("\n\n")
	b.WriteString(m.textarea.View())
	b.WriteString("\n\n")

	if m.CanSubmit() {
		b.WriteString(hintStyle.Render("[Ctrl+Enter/Ctrl+J] Confirm Rejection  [Esc] Cancel"))
	} else {
		disabledStyle := lipgloss.NewStyle().Faint(true).Strikethrough(true)
		b.WriteString(disabledStyle.Render("[Ctrl+Enter] Confirm Rejection"))
		b.WriteString(hintStyle.Render("  (reason required)  [Esc] Cancel"))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDanger).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(b.String())
}

// SetSize sets the modal dimensions.
func (m *RejectInputModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	taWidth := width - 20
	if taWidth < 30 {
		taWidth = 30
	}
	if taWidth > 60 {
		taWidth = 60
	}
	m.textarea.SetWidth(taWidth)
}

// IsSubmitted returns true once the user confirmed the rejection.
func (m RejectInputModel) IsSubmitted() bool {
	return m.submitted
}

// IsCancelled returns true once the user cancelled.
func (m RejectInputModel) IsCancelled() bool {
	return m.cancelled
}

// Reason returns the entered rejection reason.
func (m RejectInputModel) Reason() string {
	return m.reason
}

// ReportID returns the report being rejected.
func (m RejectInputModel) ReportID() string {
	return m.reportID
}
