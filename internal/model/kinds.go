package model

import (
	"fmt"
	"strings"
)

// QueryKind selects which backend endpoint a request is dispatched to.
type QueryKind string

const (
	KindSearch            QueryKind = "search"
	KindStats             QueryKind = "stats"
	KindStatsRange        QueryKind = "stats_range"
	KindHits              QueryKind = "hits"
	KindFacets            QueryKind = "facets"
	KindFieldNames        QueryKind = "field_names"
	KindFieldValues       QueryKind = "field_values"
	KindStreams           QueryKind = "streams"
	KindStreamIDs         QueryKind = "stream_ids"
	KindStreamFieldNames  QueryKind = "stream_field_names"
	KindStreamFieldValues QueryKind = "stream_field_values"
	KindTenants           QueryKind = "tenants"
)

// Kinds returns every query kind in a stable order.
func Kinds() []QueryKind {
	return []QueryKind{
		KindSearch,
		KindStats,
		KindStatsRange,
		KindHits,
		KindFacets,
		KindFieldNames,
		KindFieldValues,
		KindStreams,
		KindStreamIDs,
		KindStreamFieldNames,
		KindStreamFieldValues,
		KindTenants,
	}
}

// ParseKind resolves a user-supplied kind name. Hyphens and case are
// normalized so "stats-range" and "STATS_RANGE" both resolve.
func ParseKind(s string) (QueryKind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, k := range Kinds() {
		if string(k) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown query kind %q", s)
}

func (k QueryKind) String() string { return string(k) }
