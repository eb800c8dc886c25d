package search

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/page"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/sortby"
)

// CommandType names a user action on the search view.
type CommandType string

// Command types.
const (
	CmdSetPage          CommandType = "set_page"
	CmdSetPageSize      CommandType = "set_page_size"
	CmdSetTab           CommandType = "set_tab"
	CmdSetAgeFilter     CommandType = "set_age_filter"
	CmdSetSort          CommandType = "set_sort"
	CmdSetPostType      CommandType = "set_post_type"
	CmdSetLength        CommandType = "set_length"
	CmdSetSeriesStatus  CommandType = "set_series_status"
	CmdSetDetailed      CommandType = "set_detailed"
	CmdClearDetailed    CommandType = "clear_detailed"
	CmdSelectTag        CommandType = "select_tag"
	CmdSelectAITool     CommandType = "select_ai_tool"
	CmdSelectContestTag CommandType = "select_contest_tag"
	CmdReload           CommandType = "reload"
)

// Command is one user action. Only the fields used by Type are read.
type Command struct {
	Type         CommandType        `json:"type"`
	Page         int                `json:"page,omitempty"`
	Size         int                `json:"size,omitempty"`
	Tab          content.Type       `json:"tab,omitempty"`
	AgeFilter    query.AgeFilter    `json:"ageFilter,omitempty"`
	SortBy       sortby.Option      `json:"sortBy,omitempty"`
	PostType     query.PostType     `json:"postType,omitempty"`
	Length       query.Length       `json:"length,omitempty"`
	SeriesStatus query.SeriesStatus `json:"seriesStatus,omitempty"`
	Detailed     *DetailedRange     `json:"detailed,omitempty"`
	Label        string             `json:"label,omitempty"`
}

// DetailedRange sets the detailed bounds of the current tab: word count for
// posts, works count for series. Dates are ISO-8601 or YYYY-MM-DD.
type DetailedRange struct {
	MinCount  *int   `json:"minCount,omitempty"`
	MaxCount  *int   `json:"maxCount,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// Navigation tells the client how to update its URL.
type Navigation struct {
	Search string    `json:"search"`
	Mode   mode.Mode `json:"mode"`
}

// applyCommand returns the query after cmd and the kind of change made.
// Every change except page navigation returns to page 1.
func applyCommand(cur query.SearchQuery, cmd Command) (query.SearchQuery, mode.Change, error) {
	q := cur.Clone()
	change := mode.ChangeFilter

	switch cmd.Type {
	case CmdSetPage:
		if cmd.Page < 1 {
			return cur, "", invalid("page must be >= 1, got %d", cmd.Page)
		}
		q.Page = min(cmd.Page, query.MaxPage)
		return q, mode.ChangePage, nil
	case CmdSetPageSize:
		q.Size = page.NearestSize(cmd.Size)
		change = mode.ChangePageSize
	case CmdSetTab:
		if !cmd.Tab.IsValid() {
			return cur, "", invalid("unknown tab %q", cmd.Tab)
		}
		q.Type = cmd.Tab
		q.Fields = query.DefaultFieldsFor(cmd.Tab)
		if cmd.Tab == content.Users {
			q.TagSearchType = query.TagExact
		}
		change = mode.ChangeTab
	case CmdSetAgeFilter:
		if !cmd.AgeFilter.IsValid() {
			return cur, "", invalid("unknown age filter %q", cmd.AgeFilter)
		}
		q.AgeFilter = cmd.AgeFilter
		change = mode.ChangeAge
	case CmdSetSort:
		if !cmd.SortBy.IsValid() {
			return cur, "", invalid("unknown sort option %q", cmd.SortBy)
		}
		q.SortBy = cmd.SortBy
		change = mode.ChangeSort
	case CmdSetPostType:
		if !cmd.PostType.IsValid() {
			return cur, "", invalid("unknown post type %q", cmd.PostType)
		}
		q.PostType = cmd.PostType
	case CmdSetLength:
		if !cmd.Length.IsValid() {
			return cur, "", invalid("unknown length %q", cmd.Length)
		}
		q.Length = cmd.Length
	case CmdSetSeriesStatus:
		if !cmd.SeriesStatus.IsValid() {
			return cur, "", invalid("unknown series status %q", cmd.SeriesStatus)
		}
		q.SeriesStatus = cmd.SeriesStatus
	case CmdSetDetailed:
		next, err := applyDetailed(q, cmd.Detailed)
		if err != nil {
			return cur, "", err
		}
		q = next
		change = mode.ChangeDetailed
	case CmdClearDetailed:
		q = q.ClearDetailedFilters()
		change = mode.ChangeDetailed
	case CmdSelectTag:
		if strings.TrimSpace(cmd.Label) == "" {
			return cur, "", invalid("tag label is required")
		}
		q.MustInclude = cmd.Label
		change = mode.ChangeFacet
	case CmdSelectAITool:
		if strings.TrimSpace(cmd.Label) == "" {
			return cur, "", invalid("ai tool label is required")
		}
		q.AITool = cmd.Label
		change = mode.ChangeFacet
	case CmdSelectContestTag:
		if strings.TrimSpace(cmd.Label) == "" {
			return cur, "", invalid("contest tag label is required")
		}
		q.ContestTag = cmd.Label
		if !slices.Contains(q.Fields, query.ContestTagsField) {
			q.Fields = append(q.Fields, query.ContestTagsField)
		}
		change = mode.ChangeFacet
	case CmdReload:
		return q, mode.ChangeReload, nil
	default:
		return cur, "", invalid("unknown command %q", cmd.Type)
	}

	q.Page = query.DefaultPage
	return q, change, nil
}

func applyDetailed(q query.SearchQuery, d *DetailedRange) (query.SearchQuery, error) {
	if d == nil {
		return q, invalid("detailed range is required")
	}
	if d.MinCount != nil && d.MaxCount != nil && *d.MinCount > *d.MaxCount {
		return q, invalid("min %d is greater than max %d", *d.MinCount, *d.MaxCount)
	}
	start, err := detailedDate(d.StartDate)
	if err != nil {
		return q, err
	}
	end, err := detailedDate(d.EndDate)
	if err != nil {
		return q, err
	}
	if start != nil && end != nil && start.After(end.Time) {
		return q, invalid("start date %s is after end date %s", d.StartDate, d.EndDate)
	}

	switch q.Type {
	case content.Posts:
		q.MinWordCount, q.MaxWordCount = d.MinCount, d.MaxCount
		q.StartDate, q.EndDate = start, end
	case content.Series:
		q.MinWorksCount, q.MaxWorksCount = d.MinCount, d.MaxCount
		q.SeriesStartDate, q.SeriesEndDate = start, end
	default:
		return q, invalid("detailed filters do not apply to %s", q.Type)
	}
	return q, nil
}

func detailedDate(s string) (*query.Date, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, ok := item.ParseTime(s)
	if !ok {
		return nil, invalid("malformed date %q", s)
	}
	return query.NewDate(t), nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidQuery, fmt.Sprintf(format, args...))
}
