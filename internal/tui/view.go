package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/plexskill/internal/domain"
	"github.com/mmcdole/plexskill/internal/tui/styles"
)

const defaultWidth = 80

// View implements tea.Model
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		m.renderHeader(width),
		m.renderTabs(),
		m.renderPlaylist(width),
		m.renderStatus(),
		m.renderHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(width int) string {
	hint := styles.BadgeStyle.Render(m.Hint().String())
	input := m.phrase.View()

	border := styles.InactiveBorder
	if m.focus == focusPhrase {
		border = styles.ActiveBorder
	}
	line := lipgloss.JoinHorizontal(lipgloss.Center, input, "  ", hint)
	return border.Width(max(width-2, 10)).Render(line)
}

func (m Model) renderTabs() string {
	if len(m.batches) == 0 {
		return ""
	}

	tabs := make([]string, 0, len(m.batches))
	for i, b := range m.batches {
		label := fmt.Sprintf("%s (%d)", b.Category, len(b.Playlist))
		if i == m.batchIdx {
			tabs = append(tabs, styles.SelectedItemStyle.Render(label))
		} else {
			tabs = append(tabs, styles.NormalItemStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderPlaylist(width int) string {
	if len(m.batches) == 0 {
		return ""
	}

	batch := m.batches[m.batchIdx]
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		styles.TitleStyle.Render(styles.Truncate(batch.Title, width-20)),
		" ",
		styles.ConfidenceBadge(batch.MatchConfidence),
		" ",
		styles.DimStyle.Render(batch.Playback.String()),
	)
	b.WriteString(header)
	b.WriteString("\n")

	if m.focus == focusFilter || m.filtered {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
	}

	rows := m.visibleRows()
	if len(rows) == 0 {
		b.WriteString(styles.DimStyle.Render("  no matches"))
		return b.String()
	}

	limit := len(rows)
	if m.height > 0 {
		limit = min(limit, max(m.height-12, 3))
	}
	start := 0
	if m.cursor >= limit {
		start = m.cursor - limit + 1
	}

	for i := start; i < start+limit && i < len(rows); i++ {
		row := rows[i]
		base := styles.NormalItemStyle
		if i == m.cursor && m.focus != focusPhrase {
			base = styles.SelectedItemStyle
		}
		text := styles.Truncate(filterText(row.result), width-16)
		line := styles.Highlight(text, row.matched, base.Padding(0))
		length := styles.DimStyle.Render(formatLength(row.result.Length))
		b.WriteString(base.Render(line) + " " + length + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

type row struct {
	result  domain.SearchResult
	matched []int
}

func (m Model) visibleRows() []row {
	if len(m.batches) == 0 {
		return nil
	}
	playlist := m.batches[m.batchIdx].Playlist

	if !m.filtered {
		rows := make([]row, len(playlist))
		for i, r := range playlist {
			rows[i] = row{result: r}
		}
		return rows
	}

	rows := make([]row, len(m.matches))
	for i, match := range m.matches {
		rows[i] = row{result: playlist[match.Index], matched: match.MatchedIndexes}
	}
	return rows
}

func (m Model) renderStatus() string {
	switch {
	case m.searching:
		return m.spinner.View() + styles.DimStyle.Render(" searching...")
	case m.err != nil:
		return styles.ErrorStyle.Render("error: " + m.err.Error())
	case m.searchID > 0 && len(m.batches) == 0:
		return styles.DimStyle.Render("no results")
	}
	return ""
}

func (m Model) renderHelp() string {
	bindings := []struct{ key, desc string }{
		{"enter", "search"},
		{"tab", "media type"},
	}
	if len(m.batches) > 0 {
		bindings = append(bindings,
			struct{ key, desc string }{"h/l", "batch"},
			struct{ key, desc string }{"/", "filter"},
			struct{ key, desc string }{"i", "edit"},
		)
	}
	bindings = append(bindings, struct{ key, desc string }{"ctrl+c", "quit"})

	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = styles.HelpKeyStyle.Render(b.key) + " " + styles.HelpDescStyle.Render(b.desc)
	}
	return strings.Join(parts, "  ")
}

// formatLength renders milliseconds as m:ss or h:mm:ss
func formatLength(ms int64) string {
	if ms <= 0 {
		return ""
	}
	secs := ms / 1000
	h, m, s := secs/3600, (secs%3600)/60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
