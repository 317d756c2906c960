package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/vlquery/vlq/internal/logparse"
	"github.com/vlquery/vlq/internal/model"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// paneLayout is the single source of truth for pane geometry. View and the
// scroll handlers both derive from it so they never disagree about how many
// rows are visible.
type paneLayout struct {
	ResultsWidth int
	SideWidth    int
	BodyHeight   int
	HitsHeight   int
	FacetsHeight int
}

func layoutFor(width, height int) paneLayout {
	// title (1) + query box (3) + status line (1)
	body := height - 5
	if body < 6 {
		body = 6
	}
	results := width * 3 / 5
	if results < 40 {
		results = 40
	}
	side := width - results
	if side < 24 {
		side = 24
	}
	hits := body / 2
	return paneLayout{
		ResultsWidth: results,
		SideWidth:    side,
		BodyHeight:   body,
		HitsHeight:   hits,
		FacetsHeight: body - hits,
	}
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	layout := layoutFor(m.width, m.height)

	title := titleBarStyle.Width(m.width).Render("vlq explorer · " + m.backend)
	queryPane := m.renderQueryPane(m.width)
	results := m.renderResultsPane(layout)
	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHitsPane(layout),
		m.renderFacetsPane(layout),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, results, side)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		queryPane,
		body,
		m.renderStatusLine(),
	)
}

func (m *Model) renderQueryPane(width int) string {
	style := sectionStyle
	if m.focus == SectionQuery {
		style = activeSectionStyle
	}
	label := chartTitleStyle.Render("Query ")
	return style.Width(width - 2).Render(label + m.queryInput.View())
}

func (m *Model) renderResultsPane(layout paneLayout) string {
	style := sectionStyle
	if m.focus == SectionResults {
		style = activeSectionStyle
	}
	contentWidth := layout.ResultsWidth - 4
	contentHeight := layout.BodyHeight - 3

	header := fmt.Sprintf("Results (%d)", len(m.records))
	if len(m.records) > contentHeight {
		last := m.resultsOffset + contentHeight
		if last > len(m.records) {
			last = len(m.records)
		}
		header = fmt.Sprintf("Results (%d-%d of %d)", m.resultsOffset+1, last, len(m.records))
	}

	var content string
	switch {
	case m.searchLoading:
		content = renderLoadingPlaceholder(contentWidth, contentHeight)
	case m.searchErr != "":
		content = errorStyle.Render(wrapToWidth(m.searchErr, contentWidth))
	case len(m.records) == 0:
		content = helpStyle.Render("No matching records")
	default:
		lines := make([]string, 0, contentHeight)
		for i := m.resultsOffset; i < len(m.records) && len(lines) < contentHeight; i++ {
			lines = append(lines, formatRecordLine(m.records[i], contentWidth))
		}
		content = strings.Join(lines, "\n")
	}

	return style.Width(layout.ResultsWidth - 2).Height(layout.BodyHeight - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render(header), content),
	)
}

func (m *Model) renderHitsPane(layout paneLayout) string {
	style := sectionStyle
	if m.focus == SectionHits {
		style = activeSectionStyle
	}
	contentWidth := layout.SideWidth - 4
	contentHeight := layout.HitsHeight - 3

	header := "Hits"
	if len(m.hits) > 0 {
		minTotal, maxTotal := bucketExtremes(m.hits)
		header = fmt.Sprintf("Hits · min %d max %d", minTotal, maxTotal)
	}

	var content string
	switch {
	case m.hitsLoading:
		content = renderLoadingPlaceholder(contentWidth, contentHeight)
	case m.hitsErr != "":
		content = errorStyle.Render(wrapToWidth(m.hitsErr, contentWidth))
	case len(m.hits) == 0:
		content = helpStyle.Render("No hits")
	default:
		content = renderHitsChart(m.hits, contentWidth, contentHeight)
	}

	return style.Width(layout.SideWidth - 2).Height(layout.HitsHeight - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render(header), content),
	)
}

func (m *Model) renderFacetsPane(layout paneLayout) string {
	style := sectionStyle
	if m.focus == SectionFacets {
		style = activeSectionStyle
	}
	contentWidth := layout.SideWidth - 4
	contentHeight := layout.FacetsHeight - 3

	var content string
	switch {
	case m.facetsLoading:
		content = renderLoadingPlaceholder(contentWidth, contentHeight)
	case m.facetsErr != "":
		content = errorStyle.Render(wrapToWidth(m.facetsErr, contentWidth))
	case len(m.facets) == 0:
		content = helpStyle.Render("No facets")
	default:
		content = strings.Join(renderFacetRows(m.facets, contentWidth, contentHeight), "\n")
	}

	return style.Width(layout.SideWidth - 2).Height(layout.FacetsHeight - 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, chartTitleStyle.Render("Facets"), content),
	)
}

func (m *Model) renderStatusLine() string {
	hints := []key.Binding{
		m.keys.Run, m.keys.NextSection, m.keys.Query, m.keys.Help, m.keys.Quit,
	}
	parts := make([]string, 0, len(hints))
	for _, binding := range hints {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return helpStyle.Render(" " + strings.Join(parts, " · "))
}

func (m *Model) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Run,
		m.keys.Query,
		m.keys.Escape,
		m.keys.NextSection,
		m.keys.PrevSection,
		m.keys.Up,
		m.keys.Down,
		m.keys.PageUp,
		m.keys.PageDown,
		m.keys.Help,
		m.keys.Quit,
		m.keys.ForceQuit,
	}

	lines := []string{chartTitleStyle.Render("Key bindings"), ""}
	for _, binding := range bindings {
		h := binding.Help()
		lines = append(lines, fmt.Sprintf("  %-12s %s", h.Key, h.Desc))
	}
	lines = append(lines, "", helpStyle.Render("press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		strings.Join(lines, "\n"))
}

// formatRecordLine renders one record as "time LEVEL message", colored by
// severity. Degraded records show their raw line in gray. Styling happens
// after truncation so escape codes never get cut.
func formatRecordLine(rec model.Record, width int) string {
	if rec.Degraded() {
		raw := rec.StringField(model.RawLineKey)
		return helpStyle.Render(truncateToWidth("✗ "+raw, width))
	}

	ts := rec.StringField("_time", "timestamp", "time")
	if parsed, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		ts = parsed.Format("15:04:05")
	}
	if ts == "" {
		ts = "--:--:--"
	}

	level := logparse.RecordSeverity(rec)
	msg := rec.StringField("_msg", "message", "msg")
	if msg == "" {
		msg = compactRecord(rec)
	}
	// "HH:MM:SS LEVEL " prefix occupies 15 cells
	msg = truncateToWidth(msg, width-15)

	return fmt.Sprintf("%s %s %s",
		helpStyle.Render(ts),
		severityTextStyle(level).Render(fmt.Sprintf("%-5s", level)),
		msg,
	)
}

// compactRecord summarizes a message-less record as k=v pairs.
func compactRecord(rec model.Record) string {
	parts := make([]string, 0, len(rec))
	for k, v := range rec {
		if k == "_time" || k == "timestamp" || k == "time" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	if len(parts) == 0 {
		return "(empty record)"
	}
	// map order is random; good enough for a fallback summary
	return strings.Join(parts, " ")
}

// truncateToWidth shortens a plain (unstyled) string to fit width cells.
func truncateToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-1]) + "…"
}

func wrapToWidth(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		wordWidth := len([]rune(word))
		if line > 0 && line+wordWidth+1 > width {
			b.WriteByte('\n')
			line = 0
		} else if line > 0 {
			b.WriteByte(' ')
			line++
		}
		b.WriteString(word)
		line += wordWidth
	}
	return b.String()
}
