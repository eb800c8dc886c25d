// Package mode decides how a view change is recorded in browser history.
package mode

// Mode is a history update mode.
type Mode string

// History mode constants.
const (
	// Push adds a new history entry so Back returns to the previous view.
	Push    Mode = "push"
	Replace Mode = "replace"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Push || m == Replace
}

// Change is a kind of user-initiated view change.
type Change string

// Change kinds.
const (
	ChangePage     Change = "page"
	ChangeTab      Change = "tab"
	ChangeFacet    Change = "facet"
	ChangeFilter   Change = "filter"
	ChangeSort     Change = "sort"
	ChangeAge      Change = "age"
	ChangePageSize Change = "pageSize"
	ChangeDetailed Change = "detailed"
	ChangeReload   Change = "reload"
)

// For returns the history mode for a change. Navigation (page, tab, facet
// selection) pushes; refinements of the current view replace.
func For(c Change) Mode {
	switch c {
	case ChangePage, ChangeTab, ChangeFacet:
		return Push
	default:
		return Replace
	}
}
