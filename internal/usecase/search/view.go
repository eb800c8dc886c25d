package search

import (
	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/page"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/result"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/sortby"
)

// SubCounts are the counters shown next to the age tabs and local filters.
type SubCounts struct {
	General int `json:"general"`
	R18     int `json:"r18"`
	filter.SubCounts
}

// View is everything a client renders for one search page.
type View struct {
	Tab           content.Type  `json:"tab"`
	Query         string        `json:"query"`
	Items         []item.Item   `json:"items"`
	Facets        facet.Clouds  `json:"facets"`
	FilteredCount int           `json:"filteredCount"`
	SubCounts     SubCounts     `json:"subCounts"`
	TotalCounts   result.Totals `json:"totalCounts"`
	Page          int           `json:"page"`
	PageSize      int           `json:"pageSize"`
	TotalPages    int           `json:"totalPages"`
	ResultsInfo   page.Info     `json:"resultsInfo"`
	PageState     PageState     `json:"pageState"`
	Loading       bool          `json:"loading"`
	Error         string        `json:"error,omitempty"`
	FollowedUsers []string      `json:"followedUsers"`
}

// narrowed returns the filtered and sorted items of q over set.
func narrowed(set *result.Set, q query.SearchQuery) ([]item.Item, filter.SubCounts) {
	bucket := set.Bucket(q.AgeFilter)
	if q.Type == content.Users {
		bucket = set.All()
	}
	items, counts := filter.Narrow(bucket, q)
	return sortby.Sort(items, q.SortBy, q.Type), counts
}

// buildView derives the page view. It never modifies the set.
func buildView(q query.SearchQuery, snap Snapshot, errMsg string, followed []string) View {
	items, counts := narrowed(snap.Set, q)
	totals := snap.Set.Totals()

	return View{
		Tab:           q.Type,
		Query:         query.Serialize(q),
		Items:         page.Slice(items, q.Page, q.Size),
		Facets:        facet.CollectClouds(snap.Set.All(), q.Type),
		FilteredCount: len(items),
		SubCounts:     SubCounts{General: totals.General, R18: totals.R18, SubCounts: counts},
		TotalCounts:   totals,
		Page:          q.Page,
		PageSize:      q.Size,
		TotalPages:    page.TotalPages(len(items), q.Size),
		ResultsInfo:   page.Describe(len(items), q.Page, q.Size),
		PageState:     snap.State,
		Loading:       snap.Loading,
		Error:         errMsg,
		FollowedUsers: followed,
	}
}
