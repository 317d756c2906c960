package tui

import (
	"strings"
	"testing"

	"github.com/vlquery/vlq/internal/model"
)

func TestBuildFacetRows_FlatRows(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{"field_name": "level", "field_value": "info", "hits": float64(90)},
		{"field_name": "app", "field_value": "api", "hits": float64(12)},
		{"field_name": "level", "field_value": "error", "hits": float64(140)},
	}

	rows := buildFacetRows(records)

	want := []facetRow{
		{Field: "app", Value: "api", Hits: 12},
		{Field: "level", Value: "error", Hits: 140},
		{Field: "level", Value: "info", Hits: 90},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows = %d, want %d", len(rows), len(want))
	}
	for i, w := range want {
		if rows[i] != w {
			t.Fatalf("row %d = %+v, want %+v (fields alphabetical, hits descending)", i, rows[i], w)
		}
	}
}

func TestBuildFacetRows_NestedValues(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{
			"field_name": "host",
			"values": []any{
				map[string]any{"field_value": "web-1", "hits": float64(30)},
				map[string]any{"field_value": "web-2", "hits": "11"},
				"not an object",
			},
		},
	}

	rows := buildFacetRows(records)

	if len(rows) != 2 {
		t.Fatalf("rows = %+v, want the two object entries", rows)
	}
	if rows[0].Value != "web-1" || rows[0].Hits != 30 {
		t.Fatalf("row 0 = %+v, want web-1 with 30 hits", rows[0])
	}
	if rows[1].Value != "web-2" || rows[1].Hits != 11 {
		t.Fatalf("row 1 = %+v, want web-2 with 11 hits from a string count", rows[1])
	}
}

func TestBuildFacetRows_SkipsIncomplete(t *testing.T) {
	t.Parallel()

	records := []model.Record{
		{"field_value": "orphan", "hits": float64(5)},
		{"field_name": "level"},
		model.DegradedRecord("oops", "bad line"),
	}

	if rows := buildFacetRows(records); len(rows) != 0 {
		t.Fatalf("rows = %+v, want none from incomplete records", rows)
	}
}

func TestRenderFacetRows(t *testing.T) {
	t.Parallel()

	rows := []facetRow{
		{Field: "level", Value: "error", Hits: 140},
		{Field: "level", Value: "info", Hits: 90},
		{Field: "app", Value: "api", Hits: 12},
	}

	lines := renderFacetRows(rows, 30, 10)

	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "level=error") || !strings.Contains(lines[0], "140") {
		t.Fatalf("line 0 = %q, want label and count", lines[0])
	}
	// repeated field collapses to the bare value
	if strings.Contains(lines[1], "level=") {
		t.Fatalf("line 1 = %q, want the field name elided on repeat", lines[1])
	}
	if !strings.Contains(lines[1], "info") {
		t.Fatalf("line 1 = %q, want the value", lines[1])
	}
}

func TestRenderFacetRows_CapsLines(t *testing.T) {
	t.Parallel()

	rows := []facetRow{
		{Field: "a", Value: "1", Hits: 1},
		{Field: "b", Value: "2", Hits: 2},
		{Field: "c", Value: "3", Hits: 3},
	}

	if lines := renderFacetRows(rows, 30, 2); len(lines) != 2 {
		t.Fatalf("lines = %d, want cap at 2", len(lines))
	}
	if lines := renderFacetRows(rows, 30, 0); lines != nil {
		t.Fatalf("lines = %v, want nil when no space", lines)
	}
}
