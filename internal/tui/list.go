package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/backtime/internal/search"
	"github.com/Zuo-Peng/backtime/internal/session"
)

// linesPerItem is the number of terminal lines each session occupies.
const linesPerItem = 2

// renderList renders the left panel: the sessions with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.sessions) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, s := range m.sessions {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSessionLine(s, m.query, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatSessionLine formats one session as two lines:
//
//	line 1: [>] sentence
//	line 2:    N entries  first name (dimmed)
func formatSessionLine(s session.Session, query string, width int, selected bool) []string {
	sentence := session.Sentence(s)
	max1 := max(width-2, 0)
	if runewidth.StringWidth(sentence) > max1 {
		sentence = runewidth.Truncate(sentence, max1, "")
	}
	line1 := "  " + sentence
	if selected {
		line1 = styleListSelected.Render("> ") + sentence
	}

	count := fmt.Sprintf("%d entries", s.Len())
	if s.Len() == 1 {
		count = "1 entry"
	}
	name := s.First().Name
	if name == "" {
		name = s.First().Path
	}
	name = search.Snippet(strings.ReplaceAll(name, "\n", " "), query, width)
	name = strings.NewReplacer(">>>", "", "<<<", "").Replace(name)
	max2 := max(width-4-runewidth.StringWidth(count)-2, 0)
	if runewidth.StringWidth(name) > max2 {
		name = runewidth.Truncate(name, max2, "")
	}
	line2 := "    " + styleCount.Render(count) + "  " + lipgloss.NewStyle().Foreground(colorDim).Render(name)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(listHeight/linesPerItem, 1)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
