package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "Matrix", width: 10, want: "Matrix"},
		{in: "The Matrix Reloaded", width: 10, want: "The Mat..."},
		{in: "Amélie", width: 3, want: "Amé"},
		{in: "anything", width: 0, want: ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("Truncate(%q, %d)=%q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestConfidenceBadgeShowsPercent(t *testing.T) {
	for _, c := range []int{75, 85, 90} {
		if got := ConfidenceBadge(c); !strings.Contains(got, "%") {
			t.Errorf("ConfidenceBadge(%d)=%q, missing percent", c, got)
		}
	}
}

func TestHighlightKeepsText(t *testing.T) {
	base := lipgloss.NewStyle()
	got := Highlight("Amélie", []int{0, 2}, base)
	for _, r := range "Amélie" {
		if !strings.ContainsRune(got, r) {
			t.Fatalf("Highlight dropped %q from %q", r, got)
		}
	}
}
