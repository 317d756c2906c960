// Package tui implements the interactive log explorer: a single query line
// fanned out to three live panes (matching records, a hits-over-time
// histogram and field facets), all fed by the same query client the CLI
// uses.
package tui

import (
	"github.com/vlquery/vlq/internal/logsql"
	"github.com/vlquery/vlq/internal/model"
	"github.com/vlquery/vlq/internal/prefs"

	"github.com/charmbracelet/bubbles/textinput"
)

// Section identifies the focusable panes.
type Section int

const (
	SectionQuery Section = iota
	SectionResults
	SectionHits
	SectionFacets
)

func nextSection(s Section) Section {
	switch s {
	case SectionQuery:
		return SectionResults
	case SectionResults:
		return SectionHits
	case SectionHits:
		return SectionFacets
	default:
		return SectionQuery
	}
}

func prevSection(s Section) Section {
	switch s {
	case SectionQuery:
		return SectionFacets
	case SectionResults:
		return SectionQuery
	case SectionHits:
		return SectionResults
	default:
		return SectionHits
	}
}

// Model is the explorer state. One query is in flight per pane at most;
// results land asynchronously as typed messages.
type Model struct {
	querier logsql.Querier
	backend string
	keys    KeyMap

	width  int
	height int

	focus    Section
	showHelp bool

	queryInput textinput.Model

	records       []model.Record
	hits          []hitBucket
	facets        []facetRow
	resultsOffset int

	searchLoading bool
	hitsLoading   bool
	facetsLoading bool

	searchErr string
	hitsErr   string
	facetsErr string

	prefs     prefs.Prefs
	prefsPath string
}

// New creates an explorer bound to the given querier. The backend address
// is display-only. Preferences seed the query line and are written back on
// quit.
func New(querier logsql.Querier, backend string, p prefs.Prefs, prefsPath string) *Model {
	queryInput := textinput.New()
	queryInput.Placeholder = "LogsQL query, e.g. error OR _stream:{app=\"api\"}"
	queryInput.CharLimit = 500
	queryInput.SetValue(p.LastQuery)
	queryInput.Focus()

	return &Model{
		querier:    querier,
		backend:    backend,
		keys:       DefaultKeyMap(),
		focus:      SectionQuery,
		queryInput: queryInput,
		prefs:      p,
		prefsPath:  prefsPath,
	}
}
