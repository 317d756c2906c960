package main

import (
	"testing"
	"time"

	"github.com/vlquery/vlq/internal/model"
)

func TestParseTimeFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"empty means unset", "", time.Time{}, false},
		{"rfc3339", "2025-06-01T12:00:00Z", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), false},
		{"rfc3339 with offset", "2025-06-01T12:00:00+02:00", time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("", 2*3600)), false},
		{"date only", "2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), false},
		{"junk", "yesterday-ish", time.Time{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseTimeFlag(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseTimeFlag(%q) = %v, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimeFlag(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Fatalf("parseTimeFlag(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestKindNames_CoversEveryKind(t *testing.T) {
	t.Parallel()

	names := kindNames()
	if len(names) != len(model.Kinds()) {
		t.Fatalf("kind names = %d, want %d", len(names), len(model.Kinds()))
	}
	if names[0] != "search" {
		t.Fatalf("first kind = %q, want search first", names[0])
	}
}
