package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"medreview/pkg/model"
)

// ══════════════════════════════════════════════════════════════════════════════
// COLOR PALETTE - Dracula-inspired with clinical status semantics
// ══════════════════════════════════════════════════════════════════════════════

var (
	// Base colors
	ColorBg        = lipgloss.Color("#282A36")
	ColorBgSubtle  = lipgloss.Color("#363949")
	ColorText      = lipgloss.Color("#F8F8F2")
	ColorSubtext   = lipgloss.Color("#BFBFBF")
	ColorMuted     = lipgloss.Color("#6272A4")
	ColorBorder    = lipgloss.Color("#44475A")
	ColorPrimary   = lipgloss.Color("#BD93F9")
	ColorSecondary = lipgloss.Color("#8BE9FD")
	ColorSuccess   = lipgloss.Color("#50FA7B")
	ColorWarning   = lipgloss.Color("#FFB86C")
	ColorDanger    = lipgloss.Color("#FF5555")

	// Verification status colors
	ColorStatusPending  = lipgloss.Color("#FFB86C")
	ColorStatusVerified = lipgloss.Color("#50FA7B")
	ColorStatusRejected = lipgloss.Color("#FF5555")

	// Verification status background colors (for badges)
	ColorStatusPendingBg  = lipgloss.Color("#3D2A1A")
	ColorStatusVerifiedBg = lipgloss.Color("#1A3D2A")
	ColorStatusRejectedBg = lipgloss.Color("#3D1A1A")

	// Priority colors
	ColorPrioHigh   = lipgloss.Color("#FF5555")
	ColorPrioMedium = lipgloss.Color("#FFB86C")
	ColorPrioLow    = lipgloss.Color("#8BE9FD")

	// Priority background colors
	ColorPrioHighBg   = lipgloss.Color("#3D1A1A")
	ColorPrioMediumBg = lipgloss.Color("#3D2A1A")
	ColorPrioLowBg    = lipgloss.Color("#1A3344")
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE RENDERING
// ══════════════════════════════════════════════════════════════════════════════

// RenderStatusBadge returns a styled verification status badge.
func RenderStatusBadge(status model.Status) string {
	var fg, bg lipgloss.Color
	var label string

	switch status {
	case model.StatusPending:
		fg, bg, label = ColorStatusPending, ColorStatusPendingBg, "⏳ Pending"
	case model.StatusVerified:
		fg, bg, label = ColorStatusVerified, ColorStatusVerifiedBg, "✓ Verified"
	case model.StatusRejected:
		fg, bg, label = ColorStatusRejected, ColorStatusRejectedBg, "✗ Rejected"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "????"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// RenderPriorityBadge returns a styled triage priority badge.
func RenderPriorityBadge(priority model.Priority) string {
	var fg, bg lipgloss.Color
	var label string

	switch priority {
	case model.PriorityHigh:
		fg, bg, label = ColorPrioHigh, ColorPrioHighBg, "HIGH"
	case model.PriorityMedium:
		fg, bg, label = ColorPrioMedium, ColorPrioMediumBg, "MED"
	case model.PriorityLow:
		fg, bg, label = ColorPrioLow, ColorPrioLowBg, "LOW"
	default:
		fg, bg, label = ColorMuted, ColorBgSubtle, "??"
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(bg).
		Bold(true).
		Padding(0, 1).
		Render(label)
}

// ConfidenceBand classifies an AI confidence percentage for display.
type ConfidenceBand int

const (
	ConfidenceLow  ConfidenceBand = iota // below 75
	ConfidenceWarn                       // 75-89
	ConfidenceGood                       // 90 and up
)

// ClassifyConfidence maps a confidence percentage to its display band.
func ClassifyConfidence(v int) ConfidenceBand {
	switch {
	case v >= 90:
		return ConfidenceGood
	case v >= 75:
		return ConfidenceWarn
	default:
		return ConfidenceLow
	}
}

// ConfidenceColor returns the foreground color for a confidence value.
func ConfidenceColor(v int) lipgloss.Color {
	switch ClassifyConfidence(v) {
	case ConfidenceGood:
		return ColorSuccess
	case ConfidenceWarn:
		return ColorWarning
	default:
		return ColorDanger
	}
}

// RenderConfidence renders "NN% AI" in the band color.
func RenderConfidence(v int) string {
	return lipgloss.NewStyle().
		Foreground(ConfidenceColor(v)).
		Bold(true).
		Render(fmt.Sprintf("%d%% AI", v))
}

// RenderConfidenceBar renders a filled bar of the given width plus the
// percentage, colored by band.
func RenderConfidenceBar(v, width int) string {
	if width < 4 {
		width = 4
	}
	filled := (v * width) / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	barStyle := lipgloss.NewStyle().Foreground(ConfidenceColor(v))
	return barStyle.Render(bar) + " " + RenderConfidence(v)
}

// RenderFindingBadge returns a normal/abnormal badge for one lab finding.
func RenderFindingBadge(status model.FindingStatus) string {
	if status == model.FindingNormal {
		return lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Render("✓ Normal")
	}
	return lipgloss.NewStyle().
		Foreground(ColorWarning).
		Render("⚠ Abnormal")
}

// FormatTimestamp renders a processing time compactly, e.g. "Jan 2 15:04".
func FormatTimestamp(ts time.Time) string {
	return ts.Format("Jan 2 15:04")
}
