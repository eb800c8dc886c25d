package query

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	gq "github.com/google/go-querystring/query"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/sortby"
)

// ISOLayout is the date layout used on the wire (millisecond precision, UTC "Z").
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// EncodeValues implements go-querystring's Encoder.
func (d Date) EncodeValues(key string, v *url.Values) error {
	if d.IsZero() {
		return nil
	}
	v.Set(key, d.UTC().Format(ISOLayout))
	return nil
}

// Parse reads a URL query string (with or without the leading "?").
// Every absent or invalid parameter takes its default; it never fails.
func Parse(raw string) SearchQuery {
	// ParseQuery keeps every pair it could decode even when it reports an error.
	v, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return FromValues(v)
}

// FromValues builds a query from already-decoded URL values.
func FromValues(v url.Values) SearchQuery {
	t := content.Parse(v.Get("type"))

	fields := splitList(v.Get("fields"))
	if len(fields) == 0 {
		fields = DefaultFieldsFor(t)
	}
	contestTag := v.Get("contestTag")
	if strings.TrimSpace(contestTag) != "" && !slices.Contains(fields, ContestTagsField) {
		fields = append(fields, ContestTagsField)
	}

	q := SearchQuery{
		MustInclude:    v.Get("mustInclude"),
		ShouldInclude:  v.Get("shouldInclude"),
		MustNotInclude: v.Get("mustNotInclude"),
		Fields:         fields,
		TagSearchType:  TagPartial,
		Type:           t,
		AITool:         v.Get("aiTool"),
		ContestTag:     contestTag,
		AgeFilter:      AgeAll,
		SortBy:         sortby.Parse(v.Get("sortBy")),
		Page:           positiveInt(v.Get("page"), DefaultPage, MaxPage),
		Size:           positiveInt(v.Get("size"), DefaultSize, MaxSize),
		PostType:       PostTypeAll,
		Length:         LengthAll,
		SeriesStatus:   SeriesStatusAll,

		MinWordCount:    optionalInt(v.Get("minWordCount")),
		MaxWordCount:    optionalInt(v.Get("maxWordCount")),
		StartDate:       optionalDate(v.Get("startDate")),
		EndDate:         optionalDate(v.Get("endDate")),
		MinWorksCount:   optionalInt(v.Get("minWorksCount")),
		MaxWorksCount:   optionalInt(v.Get("maxWorksCount")),
		SeriesStartDate: optionalDate(v.Get("seriesStartDate")),
		SeriesEndDate:   optionalDate(v.Get("seriesEndDate")),
	}

	if ts := TagSearchType(v.Get("tagSearchType")); ts == TagExact || ts == TagPartial {
		q.TagSearchType = ts
	}
	if a := AgeFilter(v.Get("ageFilter")); a.IsValid() {
		q.AgeFilter = a
	}
	if p := PostType(v.Get("postType")); p.IsValid() {
		q.PostType = p
	}
	if l := Length(v.Get("length")); l.IsValid() {
		q.Length = l
	}
	if s := SeriesStatus(v.Get("seriesStatus")); s.IsValid() {
		q.SeriesStatus = s
	}
	return q
}

// Values encodes every non-empty field of q except the excluded keys.
func Values(q SearchQuery, excludeKeys ...string) url.Values {
	v, err := gq.Values(q)
	if err != nil {
		// SearchQuery only holds encodable kinds.
		v = url.Values{}
	}
	for _, k := range excludeKeys {
		v.Del(k)
	}
	return v
}

// Serialize encodes q as a query string (without "?"). Arrays are
// comma-joined and dates use ISOLayout.
func Serialize(q SearchQuery, excludeKeys ...string) string {
	return Values(q, excludeKeys...).Encode()
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func positiveInt(s string, def, limit int) int {
	n, ok := parseInt(s)
	if !ok || n <= 0 {
		return def
	}
	return min(n, limit)
}

func optionalInt(s string) *int {
	n, ok := parseInt(s)
	if !ok {
		return nil
	}
	return &n
}

// parseInt accepts integers and truncates decimal input ("12.7" -> 12).
func parseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt, true
	case f <= math.MinInt64:
		return math.MinInt, true
	}
	return int(f), true
}

func optionalDate(s string) *Date {
	t, ok := item.ParseTime(s)
	if !ok {
		return nil
	}
	return &Date{Time: t}
}
