package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/backtime/internal/render"
	"github.com/Zuo-Peng/backtime/internal/session"
)

// previewRenderedMsg is sent when an async detail render completes.
type previewRenderedMsg struct {
	key     string
	content string
}

func loadPreviewCmd(s session.Session, query string, width int) tea.Cmd {
	key := previewCacheKey(s)
	return func() tea.Msg {
		return previewRenderedMsg{
			key:     key,
			content: render.Session(s, render.Options{Width: width, Query: query}),
		}
	}
}

// previewCacheKey identifies a session by its end members and size.
func previewCacheKey(s session.Session) string {
	if len(s) == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d:%d", s.First().ID, s.Last().ID, s.Len())
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
