package logsql

import (
	"strings"
	"testing"
	"time"

	"github.com/vlquery/vlq/internal/model"
)

var paramsNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestResolveWindow_DefaultsToLastHour(t *testing.T) {
	start, end := resolveWindow(time.Time{}, time.Time{}, paramsNow)

	if got := end.Sub(start); got != time.Hour {
		t.Errorf("window width = %s, want 1h", got)
	}
	if !end.Equal(paramsNow) {
		t.Errorf("window end = %s, want %s", end, paramsNow)
	}
}

func TestResolveWindow_PartialRangeReplaced(t *testing.T) {
	givenStart := paramsNow.Add(-24 * time.Hour)

	start, end := resolveWindow(givenStart, time.Time{}, paramsNow)
	if start.Equal(givenStart) {
		t.Error("a partial range should fall back to the default window entirely")
	}
	if got := end.Sub(start); got != time.Hour {
		t.Errorf("window width = %s, want 1h", got)
	}
}

func TestResolveWindow_ExplicitRangeKept(t *testing.T) {
	givenStart := paramsNow.Add(-2 * time.Hour)
	givenEnd := paramsNow.Add(-time.Hour)

	start, end := resolveWindow(givenStart, givenEnd, paramsNow)
	if !start.Equal(givenStart) || !end.Equal(givenEnd) {
		t.Errorf("explicit range changed: got [%s, %s]", start, end)
	}
}

func TestBuildParams_SearchDefaults(t *testing.T) {
	params, err := buildParams(model.QueryRequest{Kind: model.KindSearch, Query: "error"}, paramsNow)
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}

	if got := params.Get("query"); got != "error" {
		t.Errorf("query = %q", got)
	}
	if got := params.Get("start"); got != "2025-06-01T11:00:00Z" {
		t.Errorf("start = %q, want 2025-06-01T11:00:00Z", got)
	}
	if got := params.Get("end"); got != "2025-06-01T12:00:00Z" {
		t.Errorf("end = %q, want 2025-06-01T12:00:00Z", got)
	}
	if got := params.Get("limit"); got != "100" {
		t.Errorf("limit = %q, want 100", got)
	}
	if got := params.Get("tenant"); got != "0:0" {
		t.Errorf("tenant = %q, want 0:0", got)
	}
	for _, forbidden := range []string{"step", "field", "time"} {
		if params.Has(forbidden) {
			t.Errorf("search params must not carry %q", forbidden)
		}
	}
}

func TestBuildParams_SearchLimitClamping(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  string
	}{
		{"above ceiling", 999999, "10000"},
		{"below floor", -5, "1"},
		{"in range", 250, "250"},
		{"unset takes default", 0, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := buildParams(model.QueryRequest{Kind: model.KindSearch, Query: "*", Limit: tt.limit}, paramsNow)
			if err != nil {
				t.Fatalf("buildParams: %v", err)
			}
			if got := params.Get("limit"); got != tt.want {
				t.Errorf("limit = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildParams_StatsClauseGate(t *testing.T) {
	for _, kind := range []model.QueryKind{model.KindStats, model.KindStatsRange} {
		t.Run(kind.String(), func(t *testing.T) {
			_, err := buildParams(model.QueryRequest{Kind: kind, Query: "* count()"}, paramsNow)
			if err == nil {
				t.Fatal("stats query without '| stats' should be rejected")
			}
			if !strings.Contains(err.Error(), "| stats") {
				t.Errorf("error %q should name the missing clause", err)
			}

			if _, err := buildParams(model.QueryRequest{Kind: kind, Query: "* | STATS count()"}, paramsNow); err != nil {
				t.Errorf("case-insensitive '| stats' rejected: %v", err)
			}
		})
	}
}

func TestBuildParams_StatsPointInTime(t *testing.T) {
	params, err := buildParams(model.QueryRequest{Kind: model.KindStats, Query: "* | stats count()"}, paramsNow)
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}

	if got := params.Get("time"); got != "2025-06-01T12:00:00Z" {
		t.Errorf("time = %q, want now", got)
	}
	for _, forbidden := range []string{"start", "end", "step", "field", "limit"} {
		if params.Has(forbidden) {
			t.Errorf("stats params must not carry %q", forbidden)
		}
	}

	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	params, err = buildParams(model.QueryRequest{Kind: model.KindStats, Query: "* | stats count()", At: at}, paramsNow)
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}
	if got := params.Get("time"); got != "2025-05-01T00:00:00Z" {
		t.Errorf("explicit time = %q", got)
	}
}

func TestBuildParams_SteppedKinds(t *testing.T) {
	for _, kind := range []model.QueryKind{model.KindStatsRange, model.KindHits} {
		t.Run(kind.String(), func(t *testing.T) {
			query := "*"
			if kind == model.KindStatsRange {
				query = "* | stats count()"
			}

			params, err := buildParams(model.QueryRequest{Kind: kind, Query: query}, paramsNow)
			if err != nil {
				t.Fatalf("buildParams: %v", err)
			}
			if got := params.Get("step"); got != "1h" {
				t.Errorf("default step = %q, want 1h", got)
			}
			if params.Has("limit") {
				t.Error("stepped kinds must not carry a limit")
			}

			params, err = buildParams(model.QueryRequest{Kind: kind, Query: query, Step: "5m"}, paramsNow)
			if err != nil {
				t.Fatalf("buildParams: %v", err)
			}
			if got := params.Get("step"); got != "5m" {
				t.Errorf("step = %q, want 5m", got)
			}
		})
	}
}

func TestBuildParams_FacetsLimitDefault(t *testing.T) {
	params, err := buildParams(model.QueryRequest{Kind: model.KindFacets, Query: "*"}, paramsNow)
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}
	if got := params.Get("limit"); got != "10" {
		t.Errorf("facets limit = %q, want 10", got)
	}
}

func TestBuildParams_FieldKindsRequireField(t *testing.T) {
	for _, kind := range []model.QueryKind{model.KindFieldValues, model.KindStreamFieldValues} {
		t.Run(kind.String(), func(t *testing.T) {
			_, err := buildParams(model.QueryRequest{Kind: kind, Query: "*"}, paramsNow)
			if err == nil {
				t.Fatal("missing field should be rejected")
			}
			if !strings.Contains(err.Error(), "Field parameter is required") {
				t.Errorf("error = %q", err)
			}

			params, err := buildParams(model.QueryRequest{Kind: kind, Query: "*", Field: "level"}, paramsNow)
			if err != nil {
				t.Fatalf("buildParams: %v", err)
			}
			if got := params.Get("field"); got != "level" {
				t.Errorf("field = %q", got)
			}
			if got := params.Get("limit"); got != "100" {
				t.Errorf("limit = %q, want 100", got)
			}
		})
	}
}

func TestBuildParams_QueryRequired(t *testing.T) {
	for _, kind := range model.Kinds() {
		if kind == model.KindTenants {
			continue
		}
		t.Run(kind.String(), func(t *testing.T) {
			_, err := buildParams(model.QueryRequest{Kind: kind}, paramsNow)
			if err == nil {
				t.Fatal("missing query should be rejected")
			}
			if !strings.Contains(err.Error(), "Query parameter is required") {
				t.Errorf("error = %q", err)
			}
		})
	}
}

func TestBuildParams_TenantDefault(t *testing.T) {
	for _, kind := range model.Kinds() {
		t.Run(kind.String(), func(t *testing.T) {
			req := model.QueryRequest{Kind: kind, Query: "* | stats count()", Field: "level"}
			params, err := buildParams(req, paramsNow)
			if err != nil {
				t.Fatalf("buildParams: %v", err)
			}

			if kind == model.KindTenants {
				if params.Has("tenant") {
					t.Error("tenants kind must omit tenant when unset")
				}
				return
			}
			if got := params.Get("tenant"); got != "0:0" {
				t.Errorf("tenant = %q, want 0:0", got)
			}
		})
	}
}

func TestBuildParams_TenantPassthrough(t *testing.T) {
	params, err := buildParams(model.QueryRequest{Kind: model.KindSearch, Query: "*", Tenant: "7:42"}, paramsNow)
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}
	if got := params.Get("tenant"); got != "7:42" {
		t.Errorf("tenant = %q, want 7:42", got)
	}

	params, err = buildParams(model.QueryRequest{Kind: model.KindTenants, Tenant: "7:42"}, paramsNow)
	if err != nil {
		t.Fatalf("buildParams: %v", err)
	}
	if got := params.Get("tenant"); got != "7:42" {
		t.Errorf("tenants filter = %q, want 7:42", got)
	}
}

func TestBuildParams_UnknownKind(t *testing.T) {
	_, err := buildParams(model.QueryRequest{Kind: model.QueryKind("histogram"), Query: "*"}, paramsNow)
	if err == nil {
		t.Error("unknown kind should be rejected")
	}
}

func TestEndpointTable_CoversEveryKind(t *testing.T) {
	for _, kind := range model.Kinds() {
		if EndpointPath(kind) == "" {
			t.Errorf("kind %q has no endpoint path", kind)
		}
	}
	if len(endpoints) != len(model.Kinds()) {
		t.Errorf("endpoint table has %d rows, want %d", len(endpoints), len(model.Kinds()))
	}
}

func TestEndpoints_StableOrder(t *testing.T) {
	infos := Endpoints()
	kinds := model.Kinds()

	if len(infos) != len(kinds) {
		t.Fatalf("Endpoints() returned %d entries, want %d", len(infos), len(kinds))
	}
	for i, info := range infos {
		if info.Kind != kinds[i] {
			t.Errorf("entry %d = %q, want %q", i, info.Kind, kinds[i])
		}
		if info.Path == "" {
			t.Errorf("entry %d (%q) has empty path", i, info.Kind)
		}
	}

	byKind := make(map[model.QueryKind]EndpointInfo, len(infos))
	for _, info := range infos {
		byKind[info.Kind] = info
	}
	if !byKind[model.KindFieldValues].NeedsField {
		t.Error("field_values should advertise needs_field")
	}
	if byKind[model.KindTenants].NeedsQuery {
		t.Error("tenants should not advertise needs_query")
	}
}
