package styles

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	PlexOrange = lipgloss.Color("#E5A00D")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Red        = lipgloss.Color("#EF4444")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PlexOrange)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(PlexOrange)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight).
				Padding(0, 1)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Padding(0, 1)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(PlexOrange)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Badge styles
var (
	BadgeStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(PlexOrange).
			Padding(0, 1)

	DimBadgeStyle = lipgloss.NewStyle().
			Foreground(LightGray).
			Background(SlateLight).
			Padding(0, 1)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(PlexOrange)

// Filter styles
var (
	FilterPromptStyle = lipgloss.NewStyle().
				Foreground(PlexOrange).
				Bold(true)

	MatchHighlightStyle = lipgloss.NewStyle().
				Foreground(PlexOrange).
				Bold(true)
)

// Truncate truncates a string to the given width with ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// ConfidenceBadge renders a match confidence; high scores get the accent badge
func ConfidenceBadge(confidence int) string {
	label := strconv.Itoa(confidence) + "%"
	if confidence >= 85 {
		return BadgeStyle.Render(label)
	}
	return DimBadgeStyle.Render(label)
}

// Highlight renders s with the bytes at matched indexes emphasized.
// Indexes are byte offsets as reported by fuzzy.Find.
func Highlight(s string, matched []int, base lipgloss.Style) string {
	if len(matched) == 0 {
		return base.Render(s)
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var out string
	for i, r := range s {
		if hit[i] {
			out += MatchHighlightStyle.Render(string(r))
		} else {
			out += base.Render(string(r))
		}
	}
	return out
}
