package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"medreview/pkg/model"
)

// jumpSource adapts the report collection for fuzzy matching on patient
// name, patient ID and condition together.
type jumpSource []model.Report

func (s jumpSource) String(i int) string {
	return s[i].PatientName + " " + s[i].PatientID + " " + s[i].MedicalCondition
}

func (s jumpSource) Len() int {
	return len(s)
}

// JumpListModel is a quick-open palette over the report queue. It ranks
// with fuzzy matching; it does not alter the dashboard's triage filters,
// which keep exact substring semantics.
type JumpListModel struct {
	input   textinput.Model
	reports []model.Report
	matches []fuzzy.Match
	cursor  int

	// Result
	chosen    string
	cancelled bool
}

// NewJumpListModel opens the palette over the current collection.
func NewJumpListModel(reports []model.Report) JumpListModel {
	ti := textinput.New()
	ti.Placeholder = "Jump to patient…"
	ti.Focus()
	ti.CharLimit = 80
	ti.Width = 40

	m := JumpListModel{input: ti, reports: reports}
	m.refilter()
	return m
}

// Init implements tea.Model.
func (m JumpListModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *JumpListModel) refilter() {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		m.matches = make([]fuzzy.Match, len(m.reports))
		for i := range m.reports {
			m.matches[i] = fuzzy.Match{Index: i}
		}
	} else {
		m.matches = fuzzy.FindFrom(query, jumpSource(m.reports))
	}
	if m.cursor >= len(m.matches) {
		m.cursor = len(m.matches) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles palette input.
func (m JumpListModel) Update(msg tea.Msg) (JumpListModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.cancelled = true
			return m, nil
		case "enter":
			if m.cursor < len(m.matches) {
				m.chosen = m.reports[m.matches[m.cursor].Index].ID
			} else {
				m.cancelled = true
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.matches)-1 {
				m.cursor++
			}
			return m, nil
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refilter()
	return m, cmd
}

// Chosen returns the selected report ID, empty until a choice is made.
func (m JumpListModel) Chosen() string {
	return m.chosen
}

// IsCancelled returns true once the user dismissed the palette.
func (m JumpListModel) IsCancelled() bool {
	return m.cancelled
}

// View renders the palette with its top matches.
func (m JumpListModel) View() string {
	width := 50

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	rowStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
	cursorStyle := lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	hintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Jump to Report"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	shown := len(m.matches)
	if shown > 8 {
		shown = 8
	}
	for i := 0; i < shown; i++ {
		r := m.reports[m.matches[i].Index]
		line := r.PatientName + " · " + r.MedicalCondition
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(rowStyle.Render("  "+line) + "\n")
		}
	}
	if len(m.matches) == 0 {
		b.WriteString(rowStyle.Render("  no matches") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("[Enter] Open  [Esc] Cancel"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(b.String())
}
