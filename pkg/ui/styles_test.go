package ui

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"medreview/pkg/model"
)

func TestClassifyConfidenceBands(t *testing.T) {
	cases := []struct {
		v    int
		want ConfidenceBand
	}{
		{0, ConfidenceLow},
		{74, ConfidenceLow},
		{75, ConfidenceWarn},
		{89, ConfidenceWarn},
		{90, ConfidenceGood},
		{100, ConfidenceGood},
	}
	for _, tc := range cases {
		if got := ClassifyConfidence(tc.v); got != tc.want {
			t.Errorf("ClassifyConfidence(%d) = %v, want %v", tc.v, got, tc.want)
		}
	}
}

func TestRenderStatusBadgeLabels(t *testing.T) {
	cases := []struct {
		status model.Status
		want   string
	}{
		{model.StatusPending, "Pending"},
		{model.StatusVerified, "Verified"},
		{model.StatusRejected, "Rejected"},
	}
	for _, tc := range cases {
		if got := RenderStatusBadge(tc.status); !strings.Contains(got, tc.want) {
			t.Errorf("badge for %s = %q", tc.status, got)
		}
	}
}

func TestRenderPriorityBadgeLabels(t *testing.T) {
	if got := RenderPriorityBadge(model.PriorityHigh); !strings.Contains(got, "HIGH") {
		t.Errorf("high badge = %q", got)
	}
	if got := RenderPriorityBadge(model.PriorityMedium); !strings.Contains(got, "MED") {
		t.Errorf("medium badge = %q", got)
	}
	if got := RenderPriorityBadge(model.PriorityLow); !strings.Contains(got, "LOW") {
		t.Errorf("low badge = %q", got)
	}
}

func TestRenderConfidenceBar(t *testing.T) {
	bar := RenderConfidenceBar(50, 10)
	if !strings.Contains(bar, "50% AI") {
		t.Errorf("bar = %q", bar)
	}
	if strings.Count(bar, "█") != 5 || strings.Count(bar, "░") != 5 {
		t.Errorf("fill off for 50%% at width 10: %q", bar)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 5, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "Mar 14 09:05" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}

func TestTruncateIsRuneSafe(t *testing.T) {
	if got := truncate("José Ñíguez", 6); got != "José …" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("ascii", 10); got != "ascii" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("日本語の名前", 4); got != "日本語…" {
		t.Errorf("truncate = %q", got)
	}
	for _, got := range []string{truncate("Ñandú", 3), truncate("Ñandú", 1)} {
		if !utf8.ValidString(got) {
			t.Errorf("truncate emitted invalid UTF-8: %q", got)
		}
	}
}

func TestWrapTextLines(t *testing.T) {
	lines := wrapTextLines("alpha beta gamma delta", 11)
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "alpha beta" || lines[1] != "gamma delta" {
		t.Errorf("lines = %v", lines)
	}
	for _, l := range wrapTextLines("one\n\ntwo", 80) {
		if len(l) > 80 {
			t.Errorf("line too long: %q", l)
		}
	}
}
