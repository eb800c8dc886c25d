// Package filter narrows result sets with order-preserving predicates.
//
// Every function returns a new slice and leaves its input untouched.
package filter

import (
	"time"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
)

// Word-count bucket boundaries (inclusive upper bounds).
const (
	ShortMaxWords  = 1000
	MediumMaxWords = 10000
)

// endOfDay is added to a date bound to include the whole day.
const endOfDay = 24*time.Hour - time.Millisecond

// Predicate reports whether an item is kept.
type Predicate func(item.Item) bool

// Keep returns the items matching p, in input order.
func Keep(items []item.Item, p Predicate) []item.Item {
	out := make([]item.Item, 0, len(items))
	for _, it := range items {
		if p(it) {
			out = append(out, it)
		}
	}
	return out
}

// ByAge keeps general (non-adult) or r18 (adult) items. AgeAll returns a copy.
func ByAge(items []item.Item, age query.AgeFilter) []item.Item {
	switch age {
	case query.AgeGeneral:
		return Keep(items, func(it item.Item) bool { return !it.IsAdult() })
	case query.AgeR18:
		return Keep(items, item.Item.IsAdult)
	default:
		return Keep(items, all)
	}
}

// ByPostType keeps standalone posts (no series) or series episodes.
func ByPostType(items []item.Item, t query.PostType) []item.Item {
	switch t {
	case query.PostTypeStandalone:
		return Keep(items, func(it item.Item) bool { return !it.HasSeries() })
	case query.PostTypeSeries:
		return Keep(items, item.Item.HasSeries)
	default:
		return Keep(items, all)
	}
}

// LengthOf returns the word-count bucket of an item. Missing counts are short.
func LengthOf(it item.Item) query.Length {
	wc := it.WordCount()
	switch {
	case wc <= ShortMaxWords:
		return query.LengthShort
	case wc <= MediumMaxWords:
		return query.LengthMedium
	default:
		return query.LengthLong
	}
}

// ByLength keeps posts in the given word-count bucket.
func ByLength(items []item.Item, l query.Length) []item.Item {
	if l == query.LengthAll || !l.IsValid() {
		return Keep(items, all)
	}
	return Keep(items, func(it item.Item) bool { return LengthOf(it) == l })
}

// BySeriesStatus keeps ongoing (isCompleted false or absent) or completed series.
func BySeriesStatus(items []item.Item, s query.SeriesStatus) []item.Item {
	switch s {
	case query.SeriesStatusOngoing:
		return Keep(items, func(it item.Item) bool {
			done, _ := it.Completed()
			return !done
		})
	case query.SeriesStatusCompleted:
		return Keep(items, func(it item.Item) bool {
			done, _ := it.Completed()
			return done
		})
	default:
		return Keep(items, all)
	}
}

// Bounds are the detailed-filter limits. Nil bounds do not apply.
type Bounds struct {
	CountField string
	MinCount   *int
	MaxCount   *int
	Start      *time.Time
	End        *time.Time
}

// IsEmpty reports whether no bound is set.
func (b Bounds) IsEmpty() bool {
	return b.MinCount == nil && b.MaxCount == nil && b.Start == nil && b.End == nil
}

// BoundsFor extracts the detailed bounds relevant to the query's content
// type: word count and post dates for posts, works count and series dates
// for series. Users have none.
func BoundsFor(q query.SearchQuery) Bounds {
	switch q.Type {
	case content.Posts:
		return Bounds{
			CountField: item.FieldWordCount,
			MinCount:   q.MinWordCount,
			MaxCount:   q.MaxWordCount,
			Start:      dateTime(q.StartDate),
			End:        dateTime(q.EndDate),
		}
	case content.Series:
		return Bounds{
			CountField: item.FieldWorksCount,
			MinCount:   q.MinWorksCount,
			MaxCount:   q.MaxWorksCount,
			Start:      dateTime(q.SeriesStartDate),
			End:        dateTime(q.SeriesEndDate),
		}
	default:
		return Bounds{}
	}
}

// ByDetailedRange applies each non-nil bound. Count bounds are inclusive.
// The end date includes the whole day (through 23:59:59.999 UTC). Items
// without a parseable creation date fail any date bound.
func ByDetailedRange(items []item.Item, b Bounds) []item.Item {
	if b.IsEmpty() {
		return Keep(items, all)
	}
	var endLimit time.Time
	if b.End != nil {
		endLimit = b.End.UTC().Truncate(24 * time.Hour).Add(endOfDay)
	}

	return Keep(items, func(it item.Item) bool {
		if b.MinCount != nil || b.MaxCount != nil {
			n := it.Number(b.CountField)
			if b.MinCount != nil && n < float64(*b.MinCount) {
				return false
			}
			if b.MaxCount != nil && n > float64(*b.MaxCount) {
				return false
			}
		}
		if b.Start == nil && b.End == nil {
			return true
		}
		created, ok := it.Time(item.FieldCreatedAt)
		if !ok {
			return false
		}
		if b.Start != nil && created.Before(*b.Start) {
			return false
		}
		if b.End != nil && created.After(endLimit) {
			return false
		}
		return true
	})
}

func all(item.Item) bool { return true }

func dateTime(d *query.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
