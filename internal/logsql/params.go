package logsql

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vlquery/vlq/internal/model"
)

// Limits accepted by the search endpoint; values outside are clamped.
const (
	minSearchLimit = 1
	maxSearchLimit = 10000
)

// statsMarker must appear in stats queries. A plain substring test, matching
// the backend's own leniency; quoted literals containing it pass too.
const statsMarker = "| stats"

// buildParams produces the flat parameter set for one request, applying the
// kind's defaulting rules. Inputs a kind does not use are dropped; a missing
// required input or a stats query without its marker is rejected here,
// before any network traffic.
func buildParams(req model.QueryRequest, now time.Time) (url.Values, error) {
	spec, ok := endpoints[req.Kind]
	if !ok {
		return nil, fmt.Errorf("Unknown query kind %q", req.Kind)
	}

	if spec.needsQuery && strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("Query parameter is required for %s queries", req.Kind)
	}
	if spec.statsClause && !strings.Contains(strings.ToLower(req.Query), statsMarker) {
		return nil, fmt.Errorf("Stats query must include '| stats' clause")
	}
	if spec.needsField && strings.TrimSpace(req.Field) == "" {
		return nil, fmt.Errorf("Field parameter is required for %s queries", req.Kind)
	}

	params := url.Values{}
	if spec.needsQuery {
		params.Set("query", req.Query)
	}
	if spec.needsField {
		params.Set("field", req.Field)
	}
	if spec.timeRange {
		start, end := resolveWindow(req.Start, req.End, now)
		params.Set("start", formatTime(start))
		params.Set("end", formatTime(end))
	}
	if spec.pointInTime {
		at := req.At
		if at.IsZero() {
			at = now
		}
		params.Set("time", formatTime(at))
	}
	if spec.step {
		step := strings.TrimSpace(req.Step)
		if step == "" {
			step = "1h"
		}
		params.Set("step", step)
	}
	if spec.limitDefault > 0 {
		params.Set("limit", strconv.Itoa(resolveLimit(req.Limit, spec)))
	}
	if spec.tenantOptional {
		if req.Tenant != "" {
			params.Set("tenant", req.Tenant)
		}
	} else {
		tenant := req.Tenant
		if tenant == "" {
			tenant = model.DefaultTenant
		}
		params.Set("tenant", tenant)
	}
	return params, nil
}

// resolveLimit applies the kind default to an unset limit and, where the
// kind caps results, clamps the value into the accepted range.
func resolveLimit(limit int, spec endpointSpec) int {
	if limit == 0 {
		limit = spec.limitDefault
	}
	if spec.limitClamp {
		if limit < minSearchLimit {
			return minSearchLimit
		}
		if limit > maxSearchLimit {
			return maxSearchLimit
		}
		return limit
	}
	if limit < 0 {
		return spec.limitDefault
	}
	return limit
}
