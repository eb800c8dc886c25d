// Package item wraps a single post, series or user record returned by the
// platform search API.
//
// Records are kept as decoded JSON objects. Only a handful of optional fields
// are interpreted; absent or mistyped fields read as zero values.
package item

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Field names read by the search pipeline.
const (
	FieldID               = "_id"
	FieldAdult            = "isAdultContent"
	FieldTags             = "tags"
	FieldAIEvidence       = "aiEvidence"
	FieldAITools          = "tools"
	FieldContestTags      = "contestTags"
	FieldWordCount        = "wordCount"
	FieldWorksCount       = "worksCount"
	FieldCreatedAt        = "createdAt"
	FieldUpdatedAt        = "updatedAt"
	FieldSeries           = "series"
	FieldCompleted        = "isCompleted"
	FieldViewCounter      = "viewCounter"
	FieldGoodCounter      = "goodCounter"
	FieldBookShelfCounter = "bookShelfCounter"
)

// Item is one result record.
type Item map[string]any

// ID returns the record identifier, or "" when absent.
func (it Item) ID() string {
	switch v := it[FieldID].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	if v, ok := it["id"].(string); ok {
		return v
	}
	return ""
}

// IsAdult reports whether the record is flagged as adult (R18) content.
func (it Item) IsAdult() bool {
	v, _ := it[FieldAdult].(bool)
	return v
}

// Tags returns the record's tag labels.
func (it Item) Tags() []string { return labels(it[FieldTags]) }

// AITools returns the labels under aiEvidence.tools.
func (it Item) AITools() []string {
	ev, ok := it[FieldAIEvidence].(map[string]any)
	if !ok {
		return nil
	}
	return labels(ev[FieldAITools])
}

// ContestTags returns the record's contest tag labels.
func (it Item) ContestTags() []string { return labels(it[FieldContestTags]) }

// WordCount returns the post length in characters.
func (it Item) WordCount() float64 { return it.Number(FieldWordCount) }

// WorksCount returns the number of works in a series.
func (it Item) WorksCount() float64 { return it.Number(FieldWorksCount) }

// HasSeries reports whether a post belongs to a series.
func (it Item) HasSeries() bool { return truthy(it[FieldSeries]) }

// Completed returns the series completion flag and whether it was present.
func (it Item) Completed() (completed, present bool) {
	v, ok := it[FieldCompleted].(bool)
	return v, ok
}

// Number reads a numeric field. Missing or non-numeric values read as 0.
func (it Item) Number(field string) float64 {
	switch v := it[field].(type) {
	case float64:
		if math.IsNaN(v) {
			return 0
		}
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Time reads a timestamp field. The second result is false when the field is
// absent or unparseable.
func (it Item) Time(field string) (time.Time, bool) {
	switch v := it[field].(type) {
	case time.Time:
		return v, !v.IsZero()
	case string:
		return ParseTime(v)
	}
	return time.Time{}, false
}

// ParseTime accepts RFC 3339 timestamps (with or without fractional seconds)
// and plain YYYY-MM-DD dates. Results are normalized to UTC.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func labels(v any) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []any:
		out := make([]string, 0, len(vv))
		for _, l := range vv {
			if s, ok := l.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func truthy(v any) bool {
	switch vv := v.(type) {
	case nil:
		return false
	case bool:
		return vv
	case string:
		return vv != ""
	case float64:
		return vv != 0 && !math.IsNaN(vv)
	case int:
		return vv != 0
	case json.Number:
		return vv.String() != "0"
	}
	return true
}
