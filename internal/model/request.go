package model

import "time"

// QueryRequest carries the shared inputs for every query kind. Which fields
// are consulted depends on Kind: the parameter builder applies per-kind
// defaulting and ignores fields the kind does not use.
type QueryRequest struct {
	Kind  QueryKind `json:"kind"`
	Query string    `json:"query"`

	// Start/End bound ranged kinds. When either is zero the builder
	// substitutes the default one-hour window ending now.
	Start time.Time `json:"start,omitempty"`
	End   time.Time `json:"end,omitempty"`

	// At is the evaluation instant for point-in-time stats ("time" on the
	// wire). Zero means now.
	At time.Time `json:"time,omitempty"`

	// Step is a backend duration string ("1h", "5m") for bucketed kinds.
	Step string `json:"step,omitempty"`

	// Field names the log field for value-listing kinds.
	Field string `json:"field,omitempty"`

	// Limit caps returned entries for kinds that support it. Zero or
	// negative falls back to the kind default.
	Limit int `json:"limit,omitempty"`

	// Tenant is an opaque "AccountID:ProjectID" scope, forwarded verbatim.
	Tenant string `json:"tenant,omitempty"`
}

// WithKind returns a copy of the request stamped with the given kind.
func (q QueryRequest) WithKind(kind QueryKind) QueryRequest {
	q.Kind = kind
	return q
}
