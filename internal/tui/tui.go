package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/backtime/internal/search"
	"github.com/Zuo-Peng/backtime/internal/session"
	"github.com/Zuo-Peng/backtime/internal/timesheet"
)

const debounceDelay = 200 * time.Millisecond

type sessionsMsg struct {
	query    string
	sessions []session.Session
	err      error
}

type debounceTickMsg struct {
	query string
}

// loader fetches the records matching opts and groups them.
type loader func(opts search.Options) ([]session.Session, error)

type model struct {
	load        loader
	searchOpts  search.Options
	query       string
	sessions    []session.Session
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string
	status      string
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      session.Session
}

func storeLoader(ts *timesheet.Timesheet, engine *session.Engine) loader {
	return func(opts search.Options) ([]session.Session, error) {
		recs, err := search.Search(ts, opts)
		if err != nil {
			return nil, err
		}
		return engine.Sessions(recs), nil
	}
}

func initialModel(load loader, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.SetValue(opts.Query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		load:        load,
		searchOpts:  opts,
		query:       opts.Query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the session browser and blocks until it exits. Choosing a
// session copies its summary sentence to the clipboard.
func Run(ts *timesheet.Timesheet, engine *session.Engine, opts search.Options) error {
	m := initialModel(storeLoader(ts, engine), opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if len(fm.chosen) > 0 {
		return copySentence(os.Stdout, fm.chosen)
	}
	return nil
}

// copySentence puts the session sentence on the clipboard, printing it
// instead when no clipboard is available.
func copySentence(w io.Writer, s session.Session) error {
	sentence := session.Sentence(s)
	if err := clipboard.WriteAll(sentence); err != nil {
		_, err = fmt.Fprintln(w, sentence)
		return err
	}
	_, err := fmt.Fprintf(w, "Copied to clipboard: %s\n", sentence)
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doLoad(m.query))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		if s, ok := m.current(); ok {
			cmds = append(cmds, loadPreviewCmd(s, m.query, m.previewWidth()))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if s, ok := m.current(); ok {
				m.chosen = s
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if q := m.filterInput.Value(); q != m.query {
			m.query = q
			cmds = append(cmds, scheduleDebouncedLoad(q))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.sessions) == 0 {
			return m, nil
		}
		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := max(len(m.sessions)-m.panelHeight()/linesPerItem, 0)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.sessions) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case debounceTickMsg:
		// stale ticks are dropped; only the latest query loads
		if msg.query != m.query {
			return m, nil
		}
		return m, m.doLoad(msg.query)

	case sessionsMsg:
		if msg.query != m.query {
			return m, nil
		}
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if msg.err != nil {
			m.sessions = nil
			m.status = msg.err.Error()
			m.preview.SetContent("Error: " + msg.err.Error())
			return m, nil
		}
		m.status = ""
		m.sessions = msg.sessions
		if len(m.sessions) > 0 {
			cmds = append(cmds, m.loadCurrentPreview())
		} else {
			m.preview.SetContent(session.NoEntriesMessage)
		}
		return m, tea.Batch(cmds...)

	case previewRenderedMsg:
		if msg.key == m.previewKey {
			return m, nil
		}
		if s, ok := m.current(); ok && previewCacheKey(s) != msg.key {
			return m, nil
		}
		m.preview.SetContent(msg.content)
		m.preview.GotoTop()
		m.previewKey = msg.key
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

func (m model) current() (session.Session, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sessions) {
		return nil, false
	}
	return m.sessions[m.cursor], true
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	return max(m.width*40/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row, status bar and borders
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	contentYStart := 2 // input row + top border
	contentYEnd := contentYStart + m.panelHeight() - 1
	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > lw+2 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	parts := []string{fmt.Sprintf("%d sessions", len(m.sessions))}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts,
		"click/up/dn navigate",
		"scroll/C-u/C-d detail",
		"Enter copy summary",
		"Esc quit",
	)
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) doLoad(query string) tea.Cmd {
	load := m.load
	opts := m.searchOpts
	opts.Query = query
	return func() tea.Msg {
		sessions, err := load(opts)
		return sessionsMsg{query: query, sessions: sessions, err: err}
	}
}

func scheduleDebouncedLoad(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	s, ok := m.current()
	if !ok || previewCacheKey(s) == m.previewKey {
		return nil
	}
	return loadPreviewCmd(s, m.query, m.previewWidth())
}
