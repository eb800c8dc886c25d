package filter

import (
	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
)

// SubCounts are the option counters displayed next to each local filter.
// Each counter is taken before its own filter is applied, so it reflects
// what selecting that option would yield.
type SubCounts struct {
	Standalone int `json:"standalone"`
	Series     int `json:"series"`
	Short      int `json:"short"`
	Medium     int `json:"medium"`
	Long       int `json:"long"`
	Ongoing    int `json:"ongoing"`
	Completed  int `json:"completed"`
}

// Narrow applies the local filter chain to an already age-selected bucket:
// detailed range, then post type or series status, then length (posts only).
func Narrow(items []item.Item, q query.SearchQuery) ([]item.Item, SubCounts) {
	var counts SubCounts

	out := ByDetailedRange(items, BoundsFor(q))

	switch q.Type {
	case content.Posts:
		for _, it := range out {
			if it.HasSeries() {
				counts.Series++
			} else {
				counts.Standalone++
			}
		}
		out = ByPostType(out, q.PostType)

		for _, it := range out {
			switch LengthOf(it) {
			case query.LengthShort:
				counts.Short++
			case query.LengthMedium:
				counts.Medium++
			default:
				counts.Long++
			}
		}
		out = ByLength(out, q.Length)
	case content.Series:
		for _, it := range out {
			if done, _ := it.Completed(); done {
				counts.Completed++
			} else {
				counts.Ongoing++
			}
		}
		out = BySeriesStatus(out, q.SeriesStatus)
	}
	return out, counts
}
