package novelsearch

import (
	"github.com/kailas-cloud/novelsearch/internal/domain/search/facet"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
	searchuc "github.com/kailas-cloud/novelsearch/internal/usecase/search"
)

// Query is the full set of search parameters.
type Query = query.SearchQuery

// Item is one post, series or user record as returned by the platform.
type Item = item.Item

// FacetCount is a facet label with its number of occurrences.
type FacetCount = facet.Count

// View is one rendered search page with its facets and counters.
type View = searchuc.View

// Command is a user action on a session.
type Command = searchuc.Command

// DetailedRange sets the detailed bounds of the current tab.
type DetailedRange = searchuc.DetailedRange

// Navigation tells a client how to update its URL after a command.
type Navigation = searchuc.Navigation

// Command types.
const (
	CmdSetPage          = searchuc.CmdSetPage
	CmdSetPageSize      = searchuc.CmdSetPageSize
	CmdSetTab           = searchuc.CmdSetTab
	CmdSetAgeFilter     = searchuc.CmdSetAgeFilter
	CmdSetSort          = searchuc.CmdSetSort
	CmdSetPostType      = searchuc.CmdSetPostType
	CmdSetLength        = searchuc.CmdSetLength
	CmdSetSeriesStatus  = searchuc.CmdSetSeriesStatus
	CmdSetDetailed      = searchuc.CmdSetDetailed
	CmdClearDetailed    = searchuc.CmdClearDetailed
	CmdSelectTag        = searchuc.CmdSelectTag
	CmdSelectAITool     = searchuc.CmdSelectAITool
	CmdSelectContestTag = searchuc.CmdSelectContestTag
	CmdReload           = searchuc.CmdReload
)

// ParseQuery reads a URL query string. Invalid values take their defaults.
func ParseQuery(raw string) Query { return query.Parse(raw) }

// DefaultQuery returns the query an empty URL parses to.
func DefaultQuery() Query { return query.Default() }
