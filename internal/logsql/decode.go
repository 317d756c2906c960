package logsql

import (
	"bytes"
	"encoding/json"

	"github.com/vlquery/vlq/internal/model"
)

// maxRawLine bounds the verbatim text preserved from an undecodable
// response line.
const maxRawLine = 500

// decodeBody splits a response body on newlines and decodes each non-blank
// line independently, preserving input order. A line that does not hold a
// JSON object stays at its position as a degraded record instead of
// failing the batch.
func decodeBody(body []byte) []model.Record {
	records := []model.Record{}
	for _, line := range bytes.Split(body, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var rec model.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			records = append(records, model.DegradedRecord(truncate(string(line), maxRawLine), err.Error()))
			continue
		}
		if rec == nil {
			// "null" unmarshals into a nil map without error.
			records = append(records, model.DegradedRecord(truncate(string(line), maxRawLine), "line is not a JSON object"))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// truncate cuts s to at most n bytes, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
