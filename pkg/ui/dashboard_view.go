package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"medreview/pkg/model"
)

// View implements tea.Model.
func (m *Dashboard) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showSummary {
		return m.renderSummary()
	}

	base := m.renderSplitView()

	if m.showConfirm {
		return m.renderModalOverlay(base, m.confirm.View())
	}
	if m.showReject {
		return m.renderModalOverlay(base, m.rejectInput.View())
	}
	if m.showJump {
		return m.renderModalOverlay(base, m.jumpList.View())
	}
	if m.showChat {
		return m.renderModalOverlay(base, m.chatOverlay.View())
	}

	return base
}

// renderSplitView renders the queue on the left and the detail panel on the
// right, with header, stats and footer.
func (m *Dashboard) renderSplitView() string {
	width := m.width
	if width < 40 {
		width = 80
	}
	leftWidth := (width * 40) / 100
	rightWidth := width - leftWidth - 1
	contentHeight := m.listHeight()

	var output strings.Builder

	// Header: title + stats
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	output.WriteString(titleStyle.Render("◆ Doctor Verification Panel"))
	if !m.loaded {
		loadStyle := lipgloss.NewStyle().Faint(true)
		output.WriteString(loadStyle.Render("  loading reports…"))
	}
	output.WriteString("\n")

	output.WriteString(m.renderStatsLine())

	// Filter indicators
	filterStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
	if m.filterStatus != filterAll {
		output.WriteString(filterStyle.Render("  ◇ status:" + m.filterStatus))
	}
	if m.filterPriority != filterAll {
		output.WriteString(filterStyle.Render("  ◇ priority:" + m.filterPriority))
	}
	output.WriteString("\n")

	sepStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	output.WriteString(sepStyle.Render(strings.Repeat("─", width)) + "\n")

	if m.showSearch {
		searchStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
		queryStyle := lipgloss.NewStyle().Foreground(ColorSecondary)
		output.WriteString(searchStyle.Render(" / ") + queryStyle.Render(m.searchQuery+"█") + "\n")
	}

	leftPanel := m.renderQueuePanel(leftWidth-1, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth-1, contentHeight)

	leftLines := strings.Split(leftPanel, "\n")
	rightLines := strings.Split(rightPanel, "\n")

	dividerStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	if m.detailFocus {
		dividerStyle = lipgloss.NewStyle().Foreground(ColorPrimary)
	}

	for i := 0; i < contentHeight; i++ {
		leftLine := ""
		if i < len(leftLines) {
			leftLine = leftLines[i]
		}
		rightLine := ""
		if i < len(rightLines) {
			rightLine = rightLines[i]
		}

		leftVisible := lipgloss.Width(leftLine)
		if leftVisible < leftWidth-1 {
			leftLine += strings.Repeat(" ", leftWidth-1-leftVisible)
		}

		output.WriteString(leftLine)
		output.WriteString(dividerStyle.Render("│"))
		output.WriteString(rightLine)
		output.WriteString("\n")
	}

	output.WriteString(sepStyle.Render(strings.Repeat("─", width)) + "\n")
	output.WriteString(m.renderFooter())

	return output.String()
}

// renderStatsLine renders the aggregate counters.
func (m *Dashboard) renderStatsLine() string {
	stats := m.Stats()

	totalStyle := lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	pendingStyle := lipgloss.NewStyle().Foreground(ColorStatusPending)
	verifiedStyle := lipgloss.NewStyle().Foreground(ColorStatusVerified)
	rejectedStyle := lipgloss.NewStyle().Foreground(ColorStatusRejected)
	highStyle := lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)

	return totalStyle.Render(fmt.Sprintf("%d total", stats.Total)) + "  " +
		pendingStyle.Render(fmt.Sprintf("⏳ %d pending", stats.Pending)) + "  " +
		verifiedStyle.Render(fmt.Sprintf("✓ %d verified", stats.Verified)) + "  " +
		rejectedStyle.Render(fmt.Sprintf("✗ %d rejected", stats.Rejected)) + "  " +
		highStyle.Render(fmt.Sprintf("▲ %d high priority", stats.HighPriority))
}

// renderQueuePanel renders the filtered report list.
func (m *Dashboard) renderQueuePanel(width, height int) string {
	filtered := m.FilteredReports()
	var lines []string

	if len(filtered) == 0 {
		emptyStyle := lipgloss.NewStyle().Faint(true)
		msg := "No reports match your filters"
		if !m.loaded {
			msg = "Loading reports…"
		}
		lines = append(lines, "", emptyStyle.Render("  "+msg))
	}

	endIdx := m.scroll + height
	if endIdx > len(filtered) {
		endIdx = len(filtered)
	}

	for i := m.scroll; i < endIdx; i++ {
		r := filtered[i]
		var line strings.Builder

		if i == m.cursor {
			cursorStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
			line.WriteString(cursorStyle.Render("▸ "))
		} else {
			line.WriteString("  ")
		}

		// Status glyph
		var glyph string
		var glyphStyle lipgloss.Style
		switch r.Status {
		case model.StatusVerified:
			glyphStyle = lipgloss.NewStyle().Foreground(ColorStatusVerified)
			glyph = "✓"
		case model.StatusRejected:
			glyphStyle = lipgloss.NewStyle().Foreground(ColorStatusRejected)
			glyph = "✗"
		default:
			glyphStyle = lipgloss.NewStyle().Foreground(ColorStatusPending)
			glyph = "○"
		}
		line.WriteString(glyphStyle.Render(glyph) + " ")

		// Unconfirmed-write markers
		if r.Divergent {
			divergedStyle := lipgloss.NewStyle().Foreground(ColorDanger).Bold(true)
			line.WriteString(divergedStyle.Render("!"))
		} else if r.PendingWrite {
			pendingStyle := lipgloss.NewStyle().Foreground(ColorWarning)
			line.WriteString(pendingStyle.Render("…"))
		} else {
			line.WriteString(" ")
		}
		line.WriteString(" ")

		nameStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
		if i == m.cursor {
			nameStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
		}
		if r.ID == m.selectedID {
			nameStyle = nameStyle.Underline(true)
		}

		confidence := RenderConfidence(r.AIConfidence)
		nameWidth := width - lipgloss.Width(line.String()) - lipgloss.Width(confidence) - 2
		if nameWidth < 5 {
			nameWidth = 5
		}
		name := truncate(r.PatientName+" · "+r.MedicalCondition, nameWidth)
		line.WriteString(nameStyle.Render(name))

		pad := width - lipgloss.Width(line.String()) - lipgloss.Width(confidence)
		if pad > 0 {
			line.WriteString(strings.Repeat(" ", pad))
		}
		line.WriteString(confidence)

		lines = append(lines, line.String())
	}

	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// renderDetailPanel renders the selected report with findings, explanation
// editor, recommendations and uncertainties.
func (m *Dashboard) renderDetailPanel(width, height int) string {
	r := m.SelectedReport()
	if r == nil {
		emptyStyle := lipgloss.NewStyle().Faint(true)
		lines := make([]string, height)
		if height > 2 {
			lines[height/2] = emptyStyle.Render("  Select a report from the queue to begin review")
		}
		return strings.Join(lines, "\n")
	}

	var lines []string
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	labelStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	valueStyle := lipgloss.NewStyle().Foreground(ColorText)
	sectionStyle := lipgloss.NewStyle().Bold(true)

	lines = append(lines, headerStyle.Render(" "+r.PatientName)+
		labelStyle.Render("  "+r.PatientID+" · Age "+r.Age))
	lines = append(lines, " "+RenderStatusBadge(r.Status)+" "+RenderPriorityBadge(r.Priority)+
		labelStyle.Render("  "+FormatTimestamp(r.Timestamp)))
	lines = append(lines, labelStyle.Render(" Condition: ")+valueStyle.Render(r.MedicalCondition))
	lines = append(lines, " "+RenderConfidenceBar(r.AIConfidence, 20))
	if r.Divergent {
		divergedStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		lines = append(lines, divergedStyle.Render(" ! last change not confirmed by the store"))
	}
	lines = append(lines, "")

	// Lab findings table
	if len(r.Findings) > 0 {
		lines = append(lines, sectionStyle.Render(" Lab Findings"))
		for _, f := range r.Findings {
			row := fmt.Sprintf(" %-18s %-10s %-14s ", truncate(f.Label, 18), truncate(f.Value, 10), truncate(f.NormalRange, 14))
			lines = append(lines, valueStyle.Render(row)+RenderFindingBadge(f.Status))
		}
		lines = append(lines, "")
	}

	// Editable AI explanation
	dirtyTag := lipgloss.NewStyle().Faint(true).Render(" Editable")
	if m.IsDirty() {
		dirtyTag = lipgloss.NewStyle().Foreground(ColorWarning).Render(" ● Unsaved changes")
	}
	lines = append(lines, sectionStyle.Render(" AI Explanation")+dirtyTag)
	if m.editFocus {
		lines = append(lines, strings.Split(m.editArea.View(), "\n")...)
	} else {
		for _, l := range wrapTextLines(m.editArea.Value(), width-3) {
			lines = append(lines, valueStyle.Render("  "+l))
		}
	}
	lines = append(lines, "")

	if len(r.Recommendations) > 0 {
		lines = append(lines, sectionStyle.Render(" Recommendations"))
		for _, rec := range r.Recommendations {
			for j, l := range wrapTextLines(rec, width-5) {
				if j == 0 {
					lines = append(lines, valueStyle.Render("  ✔ "+l))
				} else {
					lines = append(lines, valueStyle.Render("    "+l))
				}
			}
		}
		lines = append(lines, "")
	}

	if len(r.Uncertainties) > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(ColorWarning)
		lines = append(lines, warnStyle.Bold(true).Render(" ⚠ Areas Requiring Attention"))
		for _, u := range r.Uncertainties {
			for j, l := range wrapTextLines(u, width-5) {
				if j == 0 {
					lines = append(lines, warnStyle.Render("  • "+l))
				} else {
					lines = append(lines, warnStyle.Render("    "+l))
				}
			}
		}
		lines = append(lines, "")
	}

	if r.RejectionReason != "" {
		rejStyle := lipgloss.NewStyle().Foreground(ColorStatusRejected)
		lines = append(lines, rejStyle.Bold(true).Render(" Rejection Reason"))
		for _, l := range wrapTextLines(r.RejectionReason, width-4) {
			lines = append(lines, rejStyle.Render("  "+l))
		}
	}

	// Apply scroll
	if m.detailScroll >= len(lines) {
		m.detailScroll = len(lines) - 1
	}
	if m.detailScroll < 0 {
		m.detailScroll = 0
	}
	startIdx := m.detailScroll
	endIdx := startIdx + height
	if endIdx > len(lines) {
		endIdx = len(lines)
	}

	visible := lines[startIdx:endIdx]
	for len(visible) < height {
		visible = append(visible, "")
	}
	return strings.Join(visible, "\n")
}

// renderFooter renders the keybind hints plus any active toast.
func (m *Dashboard) renderFooter() string {
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	hintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(keyStyle.Render("j/k") + hintStyle.Render(" nav "))
	b.WriteString(keyStyle.Render("enter") + hintStyle.Render(" open "))
	b.WriteString(keyStyle.Render("a") + hintStyle.Render("pprove "))
	b.WriteString(keyStyle.Render("r") + hintStyle.Render("eject "))
	b.WriteString(keyStyle.Render("e") + hintStyle.Render("dit "))
	b.WriteString(keyStyle.Render("s") + hintStyle.Render("ave "))
	b.WriteString(keyStyle.Render("f") + hintStyle.Render("ilter "))
	b.WriteString(keyStyle.Render("/") + hintStyle.Render("search "))
	b.WriteString(keyStyle.Render("o") + hintStyle.Render("pen "))
	b.WriteString(keyStyle.Render("R") + hintStyle.Render("efresh "))
	b.WriteString(keyStyle.Render("?") + hintStyle.Render("help "))
	b.WriteString(keyStyle.Render("q") + hintStyle.Render("uit"))

	if m.toast.Visible() {
		toast := m.toast.View()
		pad := m.width - lipgloss.Width(b.String()) - lipgloss.Width(toast) - 2
		if pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(toast)
	}

	return b.String()
}

// renderSummary renders the sitting summary shown before quitting.
func (m *Dashboard) renderSummary() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	infoStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
	hintStyle := lipgloss.NewStyle().Faint(true)

	b.WriteString(headerStyle.Render("Review Session Summary") + "\n")
	b.WriteString(strings.Repeat("─", 40) + "\n\n")

	b.WriteString(infoStyle.Render("Reviewer: "+m.reviewer) + "\n")
	if d := m.sessionDuration(); d > 0 {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Duration: %s", d)) + "\n")
	}
	b.WriteString("\n")

	stats := m.Stats()
	statsHeaderStyle := lipgloss.NewStyle().Bold(true)
	b.WriteString(statsHeaderStyle.Render("Queue:") + "\n")
	b.WriteString(fmt.Sprintf("  Total:     %d\n", stats.Total))
	b.WriteString(fmt.Sprintf("  Pending:   %d\n", stats.Pending))
	b.WriteString(fmt.Sprintf("  Verified:  %d\n", stats.Verified))
	b.WriteString(fmt.Sprintf("  Rejected:  %d\n\n", stats.Rejected))

	if m.auditor != nil && m.auditor.CurrentSitting() != nil {
		s := m.auditor.CurrentSitting()
		approvedStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
		rejectedStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		editedStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

		b.WriteString(statsHeaderStyle.Render("This sitting:") + "\n")
		b.WriteString(fmt.Sprintf("  Actions:    %d\n", s.ItemsReviewed))
		b.WriteString(approvedStyle.Render(fmt.Sprintf("  ✓ Approved: %d", s.ItemsApproved)) + "\n")
		b.WriteString(rejectedStyle.Render(fmt.Sprintf("  ✗ Rejected: %d", s.ItemsRejected)) + "\n")
		b.WriteString(editedStyle.Render(fmt.Sprintf("  ✎ Edited:   %d", s.ItemsEdited)) + "\n\n")
	}

	b.WriteString(hintStyle.Render("[q] Quit  [Esc] Continue reviewing"))
	return b.String()
}

// renderHelp renders the help overlay.
func (m *Dashboard) renderHelp() string {
	width := 60
	if m.width > 0 && m.width < 70 {
		width = m.width - 10
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	sectionStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	keyStyle := lipgloss.NewStyle().Foreground(ColorPrimary)
	descStyle := lipgloss.NewStyle().Foreground(ColorSubtext)
	hintStyle := lipgloss.NewStyle().Faint(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Review Console Help") + "\n")
	b.WriteString(strings.Repeat("─", width-8) + "\n\n")

	b.WriteString(sectionStyle.Render("Navigation") + "\n")
	b.WriteString(keyStyle.Render("  j/k, ↑/↓") + descStyle.Render("   Move cursor / scroll detail") + "\n")
	b.WriteString(keyStyle.Render("  g/G") + descStyle.Render("        First/last report") + "\n")
	b.WriteString(keyStyle.Render("  Enter") + descStyle.Render("      Open report for review") + "\n")
	b.WriteString(keyStyle.Render("  x/Esc") + descStyle.Render("      Close detail panel") + "\n")
	b.WriteString(keyStyle.Render("  Tab") + descStyle.Render("        Focus queue ↔ detail") + "\n")
	b.WriteString(keyStyle.Render("  o") + descStyle.Render("          Jump to report (fuzzy)") + "\n\n")

	b.WriteString(sectionStyle.Render("Review Actions") + "\n")
	b.WriteString(keyStyle.Render("  a") + descStyle.Render("          Approve (not when already verified)") + "\n")
	b.WriteString(keyStyle.Render("  r") + descStyle.Render("          Reject with reason") + "\n")
	b.WriteString(keyStyle.Render("  e") + descStyle.Render("          Edit AI explanation") + "\n")
	b.WriteString(keyStyle.Render("  s") + descStyle.Render("          Save explanation edits") + "\n")
	b.WriteString(keyStyle.Render("  y") + descStyle.Render("          Copy report summary") + "\n\n")

	b.WriteString(sectionStyle.Render("Filters") + "\n")
	b.WriteString(keyStyle.Render("  f") + descStyle.Render("          Cycle status filter") + "\n")
	b.WriteString(keyStyle.Render("  p") + descStyle.Render("          Cycle priority filter") + "\n")
	b.WriteString(keyStyle.Render("  /") + descStyle.Render("          Search patient, ID or condition") + "\n\n")

	b.WriteString(sectionStyle.Render("Other") + "\n")
	b.WriteString(keyStyle.Render("  R") + descStyle.Render("          Refresh now") + "\n")
	b.WriteString(keyStyle.Render("  c") + descStyle.Render("          Ask the assistant") + "\n")
	b.WriteString(keyStyle.Render("  q") + descStyle.Render("          Summary / quit") + "\n\n")

	b.WriteString(hintStyle.Render("Press any key to close"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2).
		Width(width)

	content := boxStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}

// renderModalOverlay centers a modal over the base view.
func (m *Dashboard) renderModalOverlay(base, modal string) string {
	modalWidth := lipgloss.Width(modal)
	modalHeight := lipgloss.Height(modal)

	baseLines := strings.Split(base, "\n")
	modalLines := strings.Split(modal, "\n")

	startRow := (m.height - modalHeight) / 2
	startCol := (m.width - modalWidth) / 2
	if startRow < 0 {
		startRow = 0
	}
	if startCol < 0 {
		startCol = 0
	}

	for i, modalLine := range modalLines {
		row := startRow + i
		if row >= 0 && row < len(baseLines) {
			baseLines[row] = strings.Repeat(" ", startCol) + modalLine
		}
	}

	return strings.Join(baseLines, "\n")
}

// wrapTextLines wraps text to fit within width, returning slice of lines.
func wrapTextLines(text string, width int) []string {
	if width <= 0 {
		width = 40
	}
	var lines []string
	paragraphs := strings.Split(text, "\n")
	for _, para := range paragraphs {
		if para == "" {
			lines = append(lines, "")
			continue
		}
		words := strings.Fields(para)
		var currentLine string
		for _, word := range words {
			if currentLine == "" {
				currentLine = word
			} else if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				lines = append(lines, currentLine)
				currentLine = word
			}
		}
		if currentLine != "" {
			lines = append(lines, currentLine)
		}
	}
	return lines
}

// truncate shortens to at most max runes, never splitting a multibyte rune.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 2 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
