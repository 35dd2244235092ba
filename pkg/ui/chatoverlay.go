package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"medreview/pkg/chat"
)

// chatReplyMsg delivers one assistant answer to the overlay.
type chatReplyMsg struct {
	reply string
}

// chatLine is one transcript entry.
type chatLine struct {
	fromUser bool
	text     string
}

// ChatOverlayModel is the assistant overlay. It is stateless on the wire:
// each question goes out with a context note naming the report under
// review, and whatever comes back is appended to a local transcript.
type ChatOverlayModel struct {
	input       textinput.Model
	asker       chat.Asker
	contextNote string
	transcript  []chatLine
	waiting     bool

	cancelled bool
}

// NewChatOverlayModel opens the assistant overlay. contextNote names the
// report under review, empty when none is selected.
func NewChatOverlayModel(asker chat.Asker, contextNote string) ChatOverlayModel {
	ti := textinput.New()
	ti.Placeholder = "Ask about this report…"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 46

	return ChatOverlayModel{
		input:       ti,
		asker:       asker,
		contextNote: contextNote,
	}
}

// Init implements tea.Model.
func (m ChatOverlayModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles overlay input and assistant replies.
func (m ChatOverlayModel) Update(msg tea.Msg) (ChatOverlayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReplyMsg:
		m.waiting = false
		m.transcript = append(m.transcript, chatLine{text: msg.reply})
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.cancelled = true
			return m, nil
		case "enter":
			question := strings.TrimSpace(m.input.Value())
			if question == "" || m.waiting {
				return m, nil
			}
			m.transcript = append(m.transcript, chatLine{fromUser: true, text: question})
			m.input.Reset()
			m.waiting = true
			asker := m.asker
			contextNote := m.contextNote
			return m, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), chat.DefaultTimeout)
				defer cancel()
				return chatReplyMsg{reply: asker.Ask(ctx, question, contextNote)}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// IsCancelled returns true once the user closed the overlay.
func (m ChatOverlayModel) IsCancelled() bool {
	return m.cancelled
}

// View renders the overlay with the recent transcript.
func (m ChatOverlayModel) View() string {
	width := 56

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	youStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	botStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
	hintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Assistant"))
	b.WriteString("\n\n")

	start := 0
	if len(m.transcript) > 6 {
		start = len(m.transcript) - 6
	}
	for _, line := range m.transcript[start:] {
		prefix, style := "› ", botStyle
		if line.fromUser {
			prefix, style = "you: ", youStyle
		}
		for _, wrapped := range wrapTextLines(prefix+line.text, width-6) {
			b.WriteString(style.Render(wrapped) + "\n")
		}
	}
	if m.waiting {
		b.WriteString(botStyle.Render("…") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[Enter] Send  [Esc] Close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(b.String())
}
