package logsql

import "time"

// defaultWindow is the lookback applied when a caller omits a range bound.
const defaultWindow = time.Hour

// resolveWindow returns concrete range bounds. When either bound is missing
// the whole window is replaced by the hour ending at now; a partial range
// is never stitched onto the default.
func resolveWindow(start, end, now time.Time) (time.Time, time.Time) {
	if start.IsZero() || end.IsZero() {
		return now.Add(-defaultWindow), now
	}
	return start, end
}

// formatTime serializes a bound as UTC ISO-8601 with a trailing Z.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
