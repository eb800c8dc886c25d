// Package query converts search parameters to and from URL query strings.
package query

import (
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/sortby"
)

// Parameter defaults.
const (
	DefaultPage = 1
	DefaultSize = 10

	// URL values above these limits are clamped to them.
	MaxPage = 10000
	MaxSize = 500

	// ContestTagsField is appended to Fields when a contest tag is selected.
	ContestTagsField = "contestTags"
)

// TagSearchType selects exact or partial tag matching on the server.
type TagSearchType string

// Tag search type constants.
const (
	TagExact   TagSearchType = "exact"
	TagPartial TagSearchType = "partial"
)

// AgeFilter selects an age-rating bucket.
type AgeFilter string

// Age filter constants.
const (
	AgeAll     AgeFilter = "all"
	AgeGeneral AgeFilter = "general"
	AgeR18     AgeFilter = "r18"
)

// IsValid checks if the age filter is one of the supported values.
func (a AgeFilter) IsValid() bool { return a == AgeAll || a == AgeGeneral || a == AgeR18 }

// PostType narrows posts by series membership.
type PostType string

// Post type constants.
const (
	PostTypeAll        PostType = "all"
	PostTypeStandalone PostType = "standalone"
	PostTypeSeries     PostType = "series"
)

// IsValid checks if the post type is one of the supported values.
func (p PostType) IsValid() bool {
	return p == PostTypeAll || p == PostTypeStandalone || p == PostTypeSeries
}

// Length is a post word-count bucket.
type Length string

// Length bucket constants.
const (
	LengthAll    Length = "all"
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// IsValid checks if the length bucket is one of the supported values.
func (l Length) IsValid() bool {
	return l == LengthAll || l == LengthShort || l == LengthMedium || l == LengthLong
}

// SeriesStatus narrows series by completion.
type SeriesStatus string

// Series status constants.
const (
	SeriesStatusAll       SeriesStatus = "all"
	SeriesStatusOngoing   SeriesStatus = "ongoing"
	SeriesStatusCompleted SeriesStatus = "completed"
)

// IsValid checks if the series status is one of the supported values.
func (s SeriesStatus) IsValid() bool {
	return s == SeriesStatusAll || s == SeriesStatusOngoing || s == SeriesStatusCompleted
}

// Date is a detailed-filter date bound. It serializes as ISO-8601 in UTC.
type Date struct {
	time.Time
}

// NewDate wraps t, normalized to UTC.
func NewDate(t time.Time) *Date {
	return &Date{Time: t.UTC()}
}

// SearchQuery is the full set of search parameters carried in the URL.
// It is a value type: copy it with Clone before changing Fields.
type SearchQuery struct {
	MustInclude    string        `url:"mustInclude,omitempty"`
	ShouldInclude  string        `url:"shouldInclude,omitempty"`
	MustNotInclude string        `url:"mustNotInclude,omitempty"`
	Fields         []string      `url:"fields,comma,omitempty"`
	TagSearchType  TagSearchType `url:"tagSearchType,omitempty"`
	Type           content.Type  `url:"type,omitempty"`
	AITool         string        `url:"aiTool,omitempty"`
	ContestTag     string        `url:"contestTag,omitempty"`
	AgeFilter      AgeFilter     `url:"ageFilter,omitempty"`
	SortBy         sortby.Option `url:"sortBy,omitempty"`
	Page           int           `url:"page,omitempty"`
	Size           int           `url:"size,omitempty"`
	PostType       PostType      `url:"postType,omitempty"`
	Length         Length        `url:"length,omitempty"`
	SeriesStatus   SeriesStatus  `url:"seriesStatus,omitempty"`

	// Detailed filters for posts.
	MinWordCount *int  `url:"minWordCount,omitempty"`
	MaxWordCount *int  `url:"maxWordCount,omitempty"`
	StartDate    *Date `url:"startDate,omitempty"`
	EndDate      *Date `url:"endDate,omitempty"`

	// Detailed filters for series.
	MinWorksCount   *int  `url:"minWorksCount,omitempty"`
	MaxWorksCount   *int  `url:"maxWorksCount,omitempty"`
	SeriesStartDate *Date `url:"seriesStartDate,omitempty"`
	SeriesEndDate   *Date `url:"seriesEndDate,omitempty"`
}

// Default returns the query an empty URL parses to.
func Default() SearchQuery {
	return SearchQuery{
		Fields:        content.DefaultFields(content.Posts),
		TagSearchType: TagPartial,
		Type:          content.Posts,
		AgeFilter:     AgeAll,
		SortBy:        sortby.Default,
		Page:          DefaultPage,
		Size:          DefaultSize,
		PostType:      PostTypeAll,
		Length:        LengthAll,
		SeriesStatus:  SeriesStatusAll,
	}
}

// DefaultFieldsFor returns the fields searched for a content type when the
// URL does not name any.
func DefaultFieldsFor(t content.Type) []string {
	return content.DefaultFields(t)
}

// Clone returns a deep copy of q.
func (q SearchQuery) Clone() SearchQuery {
	c := q
	c.Fields = slices.Clone(q.Fields)
	c.MinWordCount = cloneInt(q.MinWordCount)
	c.MaxWordCount = cloneInt(q.MaxWordCount)
	c.MinWorksCount = cloneInt(q.MinWorksCount)
	c.MaxWorksCount = cloneInt(q.MaxWorksCount)
	c.StartDate = cloneDate(q.StartDate)
	c.EndDate = cloneDate(q.EndDate)
	c.SeriesStartDate = cloneDate(q.SeriesStartDate)
	c.SeriesEndDate = cloneDate(q.SeriesEndDate)
	return c
}

// Identity is the subset of a query whose change invalidates accumulated
// results: free-text terms, fields, tag search type, AI tool and content type.
type Identity struct {
	MustInclude    string
	ShouldInclude  string
	MustNotInclude string
	Fields         string
	TagSearchType  TagSearchType
	AITool         string
	Type           content.Type
}

// Identity returns the session-defining subset of q.
func (q SearchQuery) Identity() Identity {
	return Identity{
		MustInclude:    q.MustInclude,
		ShouldInclude:  q.ShouldInclude,
		MustNotInclude: q.MustNotInclude,
		Fields:         strings.Join(q.Fields, ","),
		TagSearchType:  q.TagSearchType,
		AITool:         q.AITool,
		Type:           q.Type,
	}
}

// HasDetailedFilters reports whether any detailed bound applies to the
// query's content type.
func (q SearchQuery) HasDetailedFilters() bool {
	switch q.Type {
	case content.Posts:
		return q.MinWordCount != nil || q.MaxWordCount != nil || q.StartDate != nil || q.EndDate != nil
	case content.Series:
		return q.MinWorksCount != nil || q.MaxWorksCount != nil ||
			q.SeriesStartDate != nil || q.SeriesEndDate != nil
	default:
		return false
	}
}

// ClearDetailedFilters drops every detailed bound for both content types.
func (q SearchQuery) ClearDetailedFilters() SearchQuery {
	c := q.Clone()
	c.MinWordCount, c.MaxWordCount, c.StartDate, c.EndDate = nil, nil, nil, nil
	c.MinWorksCount, c.MaxWorksCount, c.SeriesStartDate, c.SeriesEndDate = nil, nil, nil, nil
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneDate(p *Date) *Date {
	if p == nil {
		return nil
	}
	d := *p
	return &d
}
