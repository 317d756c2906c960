package logsql

import "github.com/vlquery/vlq/internal/model"

// endpointSpec is one row of the per-kind dispatch table: the backend path
// plus the builder rules for which inputs the kind requires, which it
// defaults, and which it drops.
type endpointSpec struct {
	path           string
	needsQuery     bool
	needsField     bool
	statsClause    bool
	timeRange      bool
	pointInTime    bool
	step           bool
	limitDefault   int
	limitClamp     bool
	tenantOptional bool
}

// endpoints is total over model.Kinds() and never mutated at runtime.
var endpoints = map[model.QueryKind]endpointSpec{
	model.KindSearch:            {path: "/select/logsql/query", needsQuery: true, timeRange: true, limitDefault: 100, limitClamp: true},
	model.KindStats:             {path: "/select/logsql/stats_query", needsQuery: true, statsClause: true, pointInTime: true},
	model.KindStatsRange:        {path: "/select/logsql/stats_query_range", needsQuery: true, statsClause: true, timeRange: true, step: true},
	model.KindHits:              {path: "/select/logsql/hits", needsQuery: true, timeRange: true, step: true},
	model.KindFacets:            {path: "/select/logsql/facets", needsQuery: true, timeRange: true, limitDefault: 10},
	model.KindFieldNames:        {path: "/select/logsql/field_names", needsQuery: true, timeRange: true},
	model.KindFieldValues:       {path: "/select/logsql/field_values", needsQuery: true, needsField: true, timeRange: true, limitDefault: 100},
	model.KindStreams:           {path: "/select/logsql/streams", needsQuery: true, timeRange: true, limitDefault: 100},
	model.KindStreamIDs:         {path: "/select/logsql/stream_ids", needsQuery: true, timeRange: true},
	model.KindStreamFieldNames:  {path: "/select/logsql/stream_field_names", needsQuery: true, timeRange: true},
	model.KindStreamFieldValues: {path: "/select/logsql/stream_field_values", needsQuery: true, needsField: true, timeRange: true, limitDefault: 100},
	model.KindTenants:           {path: "/select/logsql/tenants", tenantOptional: true},
}

// EndpointPath returns the backend path suffix for the kind, or "" when the
// kind is unknown.
func EndpointPath(kind model.QueryKind) string {
	return endpoints[kind].path
}

// EndpointInfo describes one query kind for discovery surfaces.
type EndpointInfo struct {
	Kind       model.QueryKind `json:"kind"`
	Path       string          `json:"path"`
	NeedsQuery bool            `json:"needs_query"`
	NeedsField bool            `json:"needs_field"`
}

// Endpoints lists every kind with its path and required inputs, in
// model.Kinds() order.
func Endpoints() []EndpointInfo {
	infos := make([]EndpointInfo, 0, len(endpoints))
	for _, kind := range model.Kinds() {
		spec := endpoints[kind]
		infos = append(infos, EndpointInfo{
			Kind:       kind,
			Path:       spec.path,
			NeedsQuery: spec.needsQuery,
			NeedsField: spec.needsField,
		})
	}
	return infos
}
