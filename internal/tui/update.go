package tui

import (
	"context"
	"strings"

	"github.com/vlquery/vlq/internal/model"
	"github.com/vlquery/vlq/internal/prefs"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Pane results arrive as separate typed messages so the three fetches stay
// independent: a slow facets call never blocks the results pane.
type (
	searchLoadedMsg struct{ res *model.Result }
	hitsLoadedMsg   struct{ res *model.Result }
	facetsLoadedMsg struct{ res *model.Result }
)

const resultsPage = 10

// hitsStep is finer than the query window default so the histogram gets a
// usable number of columns out of the last hour.
const hitsStep = "5m"

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.runQuery())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inputWidth := msg.Width - 14
		if inputWidth < 20 {
			inputWidth = 20
		}
		m.queryInput.Width = inputWidth
		return m, nil

	case SpinnerTickMsg:
		if m.anyLoading() {
			return m, spinnerTick()
		}
		return m, nil

	case searchLoadedMsg:
		m.searchLoading = false
		if msg.res.OK() {
			m.records = msg.res.Data
			m.searchErr = ""
			m.resultsOffset = 0
		} else {
			m.records = nil
			m.searchErr = msg.res.Err
		}
		return m, nil

	case hitsLoadedMsg:
		m.hitsLoading = false
		if msg.res.OK() {
			m.hits = buildHitBuckets(msg.res.Data)
			m.hitsErr = ""
		} else {
			m.hits = nil
			m.hitsErr = msg.res.Err
		}
		return m, nil

	case facetsLoadedMsg:
		m.facetsLoading = false
		if msg.res.OK() {
			m.facets = buildFacetRows(msg.res.Data)
			m.facetsErr = ""
		} else {
			m.facets = nil
			m.facetsErr = msg.res.Err
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.focus == SectionQuery {
		switch {
		case key.Matches(msg, m.keys.Run):
			return m, m.runQuery()
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.NextSection):
			m.queryInput.Blur()
			m.focus = SectionResults
			return m, nil
		default:
			var cmd tea.Cmd
			m.queryInput, cmd = m.queryInput.Update(msg)
			return m, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Query):
		m.focus = SectionQuery
		return m, m.queryInput.Focus()
	case key.Matches(msg, m.keys.NextSection):
		m.focus = nextSection(m.focus)
		if m.focus == SectionQuery {
			return m, m.queryInput.Focus()
		}
	case key.Matches(msg, m.keys.PrevSection):
		m.focus = prevSection(m.focus)
		if m.focus == SectionQuery {
			return m, m.queryInput.Focus()
		}
	case key.Matches(msg, m.keys.Up):
		m.scrollResults(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollResults(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollResults(-resultsPage)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollResults(resultsPage)
	case key.Matches(msg, m.keys.Run):
		return m, m.runQuery()
	}

	return m, nil
}

func (m *Model) scrollResults(delta int) {
	m.resultsOffset += delta
	maxOffset := len(m.records) - 1
	if m.resultsOffset > maxOffset {
		m.resultsOffset = maxOffset
	}
	if m.resultsOffset < 0 {
		m.resultsOffset = 0
	}
}

// runQuery fires the three pane fetches concurrently. An empty query line
// means match everything.
func (m *Model) runQuery() tea.Cmd {
	query := strings.TrimSpace(m.queryInput.Value())
	if query == "" {
		query = "*"
	}
	m.prefs.LastQuery = query

	m.searchLoading = true
	m.hitsLoading = true
	m.facetsLoading = true
	m.searchErr = ""
	m.hitsErr = ""
	m.facetsErr = ""

	return tea.Batch(
		m.fetchSearchCmd(query),
		m.fetchHitsCmd(query),
		m.fetchFacetsCmd(query),
		spinnerTick(),
	)
}

func (m *Model) fetchSearchCmd(query string) tea.Cmd {
	querier := m.querier
	return func() tea.Msg {
		req := model.QueryRequest{Kind: model.KindSearch, Query: query}
		return searchLoadedMsg{res: querier.Do(context.Background(), req)}
	}
}

func (m *Model) fetchHitsCmd(query string) tea.Cmd {
	querier := m.querier
	return func() tea.Msg {
		req := model.QueryRequest{Kind: model.KindHits, Query: query, Step: hitsStep}
		return hitsLoadedMsg{res: querier.Do(context.Background(), req)}
	}
}

func (m *Model) fetchFacetsCmd(query string) tea.Cmd {
	querier := m.querier
	return func() tea.Msg {
		req := model.QueryRequest{Kind: model.KindFacets, Query: query}
		return facetsLoadedMsg{res: querier.Do(context.Background(), req)}
	}
}

func (m *Model) savePrefs() {
	if query := strings.TrimSpace(m.queryInput.Value()); query != "" {
		m.prefs.LastQuery = query
	}
	// Best effort: losing a preference write is not worth interrupting quit.
	_ = prefs.Save(m.prefsPath, m.prefs)
}
