package tui

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vlquery/vlq/internal/logparse"
	"github.com/vlquery/vlq/internal/model"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// hitBucket is one time slot of the hits histogram, split by severity.
type hitBucket struct {
	Time   string
	Counts map[string]int
	Total  int
}

// asFloat coerces the numeric shapes the backend emits: JSON numbers decode
// as float64, but counts sometimes arrive as strings.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// buildHitBuckets turns hits records into time-ordered buckets. Two line
// shapes are accepted: grouped series ({"fields":{...},"timestamps":[...],
// "values":[...]}) and flat rows ({"_time":...,"hits":N}). Records that
// carry neither are skipped.
func buildHitBuckets(records []model.Record) []hitBucket {
	byTime := make(map[string]*hitBucket)

	add := func(ts, severity string, n float64) {
		if ts == "" || n <= 0 {
			return
		}
		bucket := byTime[ts]
		if bucket == nil {
			bucket = &hitBucket{Time: ts, Counts: make(map[string]int)}
			byTime[ts] = bucket
		}
		bucket.Counts[severity] += int(n)
		bucket.Total += int(n)
	}

	for _, rec := range records {
		severity := "INFO"
		if fields, ok := rec["fields"].(map[string]any); ok && len(fields) > 0 {
			severity = logparse.RecordSeverity(model.Record(fields))
		}

		timestamps, tsOK := rec["timestamps"].([]any)
		values, valOK := rec["values"].([]any)
		if tsOK && valOK {
			for i, raw := range timestamps {
				if i >= len(values) {
					break
				}
				ts, _ := raw.(string)
				if n, ok := asFloat(values[i]); ok {
					add(ts, severity, n)
				}
			}
			continue
		}

		ts := rec.StringField("_time", "timestamp", "time")
		if ts == "" {
			continue
		}
		severity = logparse.RecordSeverity(rec)
		for _, name := range []string{"hits", "count", "value", "total"} {
			if n, ok := asFloat(rec[name]); ok {
				add(ts, severity, n)
				break
			}
		}
	}

	buckets := make([]hitBucket, 0, len(byTime))
	for _, bucket := range byTime {
		buckets = append(buckets, *bucket)
	}
	// RFC3339 timestamps sort correctly as strings.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Time < buckets[j].Time })
	return buckets
}

// bucketExtremes returns the smallest and largest bucket totals.
func bucketExtremes(buckets []hitBucket) (int, int) {
	if len(buckets) == 0 {
		return 0, 0
	}
	minTotal, maxTotal := buckets[0].Total, buckets[0].Total
	for _, bucket := range buckets {
		if bucket.Total < minTotal {
			minTotal = bucket.Total
		}
		if bucket.Total > maxTotal {
			maxTotal = bucket.Total
		}
	}
	return minTotal, maxTotal
}

// renderHitsChart draws the buckets as a stacked bar chart with a one-line
// severity legend underneath. The newest buckets win when there are more
// buckets than columns.
func renderHitsChart(buckets []hitBucket, width, height int) string {
	if width < 20 {
		width = 20
	}
	chartHeight := height - 1
	if chartHeight < 3 {
		chartHeight = 3
	}

	maxBars := width / 2
	start := 0
	if len(buckets) > maxBars {
		start = len(buckets) - maxBars
	}
	visible := buckets[start:]

	bc := barchart.New(width, chartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	for i := 0; i < maxBars-len(visible); i++ {
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: "EMPTY", Value: 0, Style: severityBarStyle("UNKNOWN")},
			},
		})
	}

	totals := make(map[string]int)
	for _, bucket := range visible {
		var barValues []barchart.BarValue
		for _, level := range logparse.Levels() {
			count := bucket.Counts[level]
			if count <= 0 {
				continue
			}
			totals[level] += count
			barValues = append(barValues, barchart.BarValue{
				Name:  level,
				Value: float64(count),
				Style: severityBarStyle(level),
			})
		}
		if len(barValues) == 0 {
			barValues = append(barValues, barchart.BarValue{
				Name:  "EMPTY",
				Value: 0,
				Style: severityBarStyle("UNKNOWN"),
			})
		}
		bc.Push(barchart.BarData{Label: "", Values: barValues})
	}

	bc.Draw()

	var legendParts []string
	for _, level := range logparse.Levels() {
		if totals[level] == 0 {
			continue
		}
		part := severityTextStyle(level).Render(level + " " + strconv.Itoa(totals[level]))
		legendParts = append(legendParts, part)
	}
	legend := helpStyle.Render("no hits")
	if len(legendParts) > 0 {
		legend = strings.Join(legendParts, "  ")
	}

	return lipgloss.JoinVertical(lipgloss.Left, bc.View(), legend)
}
