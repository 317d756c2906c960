package tui

import (
	"fmt"
	"sort"

	"github.com/vlquery/vlq/internal/model"
)

// facetRow is one field/value pair with its hit count.
type facetRow struct {
	Field string
	Value string
	Hits  int
}

// buildFacetRows flattens facet records. The backend emits either flat rows
// ({"field_name":...,"field_value":...,"hits":N}) or one record per field
// with a nested values array; both collapse to the same row shape.
func buildFacetRows(records []model.Record) []facetRow {
	var rows []facetRow

	appendRow := func(field, value string, hits any) {
		if field == "" || value == "" {
			return
		}
		n, _ := asFloat(hits)
		rows = append(rows, facetRow{Field: field, Value: value, Hits: int(n)})
	}

	for _, rec := range records {
		field := rec.StringField("field_name", "field")
		if field == "" {
			continue
		}

		if nested, ok := rec["values"].([]any); ok {
			for _, raw := range nested {
				entry, ok := raw.(map[string]any)
				if !ok {
					continue
				}
				appendRow(field, model.Record(entry).StringField("field_value", "value"), entry["hits"])
			}
			continue
		}

		appendRow(field, rec.StringField("field_value", "value"), rec["hits"])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Field != rows[j].Field {
			return rows[i].Field < rows[j].Field
		}
		return rows[i].Hits > rows[j].Hits
	})
	return rows
}

// renderFacetRows formats rows for the facets pane, one per line, with hit
// counts right-aligned.
func renderFacetRows(rows []facetRow, width, maxLines int) []string {
	if maxLines <= 0 || len(rows) == 0 {
		return nil
	}
	if len(rows) > maxLines {
		rows = rows[:maxLines]
	}

	lines := make([]string, 0, len(rows))
	lastField := ""
	for _, row := range rows {
		label := fmt.Sprintf("%s=%s", row.Field, row.Value)
		if row.Field == lastField {
			label = fmt.Sprintf("  %s", row.Value)
		}
		lastField = row.Field

		count := fmt.Sprintf("%d", row.Hits)
		pad := width - len([]rune(label)) - len(count) - 1
		if pad < 1 {
			if max := width - len(count) - 2; max > 3 && len([]rune(label)) > max {
				label = string([]rune(label)[:max-1]) + "…"
			}
			pad = 1
		}
		lines = append(lines, fmt.Sprintf("%s%*s", label, pad+len(count), count))
	}
	return lines
}
