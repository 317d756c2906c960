package model

// Record is one decoded line of a query response. Well-formed lines decode
// into their JSON object fields; lines that fail to decode are preserved as
// degraded records carrying the raw text and the decode failure.
type Record map[string]any

// Keys of degraded records produced by the response decoder.
const (
	RawLineKey    = "raw_line"
	ParseErrorKey = "parse_error"
)

// DegradedRecord wraps a response line that could not be decoded.
func DegradedRecord(rawLine, parseError string) Record {
	return Record{
		RawLineKey:    rawLine,
		ParseErrorKey: parseError,
	}
}

// Degraded reports whether the record is a decode-failure placeholder
// rather than a decoded line.
func (r Record) Degraded() bool {
	_, ok := r[ParseErrorKey]
	return ok
}

// StringField returns the first of the named fields present with a string
// value, or "" when none match.
func (r Record) StringField(names ...string) string {
	for _, name := range names {
		if v, ok := r[name]; ok {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
