package tui

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/vlquery/vlq/internal/model"
	"github.com/vlquery/vlq/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

type stubQuerier struct {
	calls   map[model.QueryKind]int
	lastReq map[model.QueryKind]model.QueryRequest
	results map[model.QueryKind]*model.Result
}

func (s *stubQuerier) Do(_ context.Context, req model.QueryRequest) *model.Result {
	if s.calls == nil {
		s.calls = make(map[model.QueryKind]int)
	}
	if s.lastReq == nil {
		s.lastReq = make(map[model.QueryKind]model.QueryRequest)
	}
	s.calls[req.Kind]++
	s.lastReq[req.Kind] = req
	if res, ok := s.results[req.Kind]; ok {
		return res
	}
	return model.Success(nil)
}

func newTestModel(t *testing.T, stub *stubQuerier) *Model {
	t.Helper()
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(stub, "http://localhost:9428", prefs.Prefs{LastQuery: "*"}, prefsPath)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestInit_RunsInitialQuery(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})

	if cmd := m.Init(); cmd == nil {
		t.Fatal("expected an initial command")
	}
	if !m.searchLoading || !m.hitsLoading || !m.facetsLoading {
		t.Fatal("expected all panes loading after init")
	}
}

func TestFetchCmds_QueryEachPane(t *testing.T) {
	t.Parallel()

	stub := &stubQuerier{}
	m := newTestModel(t, stub)

	if msg := m.fetchSearchCmd("error")(); msg == nil {
		t.Fatal("search cmd returned no message")
	}
	if msg := m.fetchHitsCmd("error")(); msg == nil {
		t.Fatal("hits cmd returned no message")
	}
	if msg := m.fetchFacetsCmd("error")(); msg == nil {
		t.Fatal("facets cmd returned no message")
	}

	for _, kind := range []model.QueryKind{model.KindSearch, model.KindHits, model.KindFacets} {
		if stub.calls[kind] != 1 {
			t.Fatalf("calls[%s] = %d, want 1", kind, stub.calls[kind])
		}
		if got := stub.lastReq[kind].Query; got != "error" {
			t.Fatalf("query for %s = %q, want %q", kind, got, "error")
		}
	}
	if got := stub.lastReq[model.KindHits].Step; got != hitsStep {
		t.Fatalf("hits step = %q, want %q", got, hitsStep)
	}
}

func TestRunQuery_EmptyLineMeansMatchAll(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.queryInput.SetValue("   ")

	if cmd := m.runQuery(); cmd == nil {
		t.Fatal("expected a batch command")
	}
	if m.prefs.LastQuery != "*" {
		t.Fatalf("last query = %q, want %q", m.prefs.LastQuery, "*")
	}
}

func TestUpdate_SearchLoaded(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.searchLoading = true
	m.resultsOffset = 3

	records := []model.Record{{"_msg": "hello"}}
	m.Update(searchLoadedMsg{res: model.Success(records)})

	if m.searchLoading {
		t.Fatal("search still loading after result")
	}
	if len(m.records) != 1 || m.searchErr != "" {
		t.Fatalf("records = %v, err = %q; want the one record and no error", m.records, m.searchErr)
	}
	if m.resultsOffset != 0 {
		t.Fatalf("results offset = %d, want reset to 0", m.resultsOffset)
	}
}

func TestUpdate_SearchError(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.records = []model.Record{{"_msg": "stale"}}
	m.searchLoading = true

	m.Update(searchLoadedMsg{res: model.Errorf(model.ErrClassTransport, "Failed to connect to %s: refused", "http://x")})

	if m.searchErr == "" {
		t.Fatal("expected the error message to be kept")
	}
	if m.records != nil {
		t.Fatalf("records = %v, want stale data dropped on error", m.records)
	}
}

func TestUpdate_HitsAndFacetsLoaded(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.hitsLoading = true
	m.facetsLoading = true

	m.Update(hitsLoadedMsg{res: model.Success([]model.Record{
		{"_time": "2025-06-01T10:00:00Z", "hits": float64(4)},
	})})
	m.Update(facetsLoadedMsg{res: model.Success([]model.Record{
		{"field_name": "level", "field_value": "info", "hits": float64(9)},
	})})

	if len(m.hits) != 1 || m.hits[0].Total != 4 {
		t.Fatalf("hits = %+v, want one bucket with total 4", m.hits)
	}
	if len(m.facets) != 1 || m.facets[0].Field != "level" {
		t.Fatalf("facets = %+v, want the level facet", m.facets)
	}
	if m.hitsLoading || m.facetsLoading {
		t.Fatal("panes still loading after results")
	}
}

func TestHandleKey_TabCyclesFocus(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	tab := tea.KeyMsg{Type: tea.KeyTab}

	m.Update(tab)
	if m.focus != SectionResults || m.queryInput.Focused() {
		t.Fatalf("focus = %v, input focused = %v; want results with input blurred", m.focus, m.queryInput.Focused())
	}

	m.Update(tab)
	if m.focus != SectionHits {
		t.Fatalf("focus = %v, want hits", m.focus)
	}

	m.Update(tab)
	if m.focus != SectionFacets {
		t.Fatalf("focus = %v, want facets", m.focus)
	}

	m.Update(tab)
	if m.focus != SectionQuery || !m.queryInput.Focused() {
		t.Fatalf("focus = %v, input focused = %v; want back to query with input focused", m.focus, m.queryInput.Focused())
	}
}

func TestHandleKey_TypingReachesQueryLine(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.queryInput.SetValue("")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	if got := m.queryInput.Value(); got != "er" {
		t.Fatalf("query line = %q, want %q", got, "er")
	}
}

func TestHandleKey_EnterRunsQuery(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.queryInput.SetValue("error")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("expected enter to return a fetch command")
	}
	if !m.searchLoading || !m.hitsLoading || !m.facetsLoading {
		t.Fatal("expected all panes loading after enter")
	}
}

func TestHandleKey_QuitSavesPrefs(t *testing.T) {
	t.Parallel()

	stub := &stubQuerier{}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(stub, "http://localhost:9428", prefs.Prefs{LastQuery: "*"}, prefsPath)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.queryInput.SetValue("level:error")
	m.queryInput.Blur()
	m.focus = SectionResults

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg from quit")
	}

	saved, err := prefs.Load(prefsPath)
	if err != nil {
		t.Fatalf("load prefs: %v", err)
	}
	if saved.LastQuery != "level:error" {
		t.Fatalf("saved last query = %q, want %q", saved.LastQuery, "level:error")
	}
}

func TestHandleKey_ForceQuitAlwaysQuits(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected force quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg from ctrl+c")
	}
}

func TestHandleKey_HelpOverlay(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.queryInput.Blur()
	m.focus = SectionResults
	m.records = []model.Record{{"_msg": "a"}, {"_msg": "b"}}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	if !m.showHelp {
		t.Fatal("expected help overlay open")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if m.showHelp {
		t.Fatal("expected any key to close help")
	}
	if m.resultsOffset != 0 {
		t.Fatalf("results offset = %d, want the close key swallowed", m.resultsOffset)
	}
}

func TestSpinnerTick_ReschedulesWhileLoading(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})

	m.searchLoading = true
	if _, cmd := m.Update(SpinnerTickMsg{}); cmd == nil {
		t.Fatal("expected another tick while loading")
	}

	m.searchLoading = false
	if _, cmd := m.Update(SpinnerTickMsg{}); cmd != nil {
		t.Fatal("expected no tick once idle")
	}
}

func TestScrollResults_Clamps(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &stubQuerier{})
	m.records = make([]model.Record, 5)

	m.scrollResults(99)
	if m.resultsOffset != 4 {
		t.Fatalf("offset = %d, want clamp at last record", m.resultsOffset)
	}

	m.scrollResults(-99)
	if m.resultsOffset != 0 {
		t.Fatalf("offset = %d, want clamp at 0", m.resultsOffset)
	}
}
