// Package sortby orders result sets by one of the fixed sort options.
package sortby

import (
	"slices"
	"sort"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
)

// Option is a user-selectable sort order.
type Option string

// Sort option constants.
const (
	Newest    Option = "newest"
	Oldest    Option = "oldest"
	Updated   Option = "updated"
	Views     Option = "views"
	Likes     Option = "likes"
	Bookmarks Option = "bookmarks"
)

// Default is used when the URL carries no or an unknown sortBy value.
const Default = Newest

// Direction is the sort direction.
type Direction int

// Direction constants.
const (
	Asc Direction = iota
	Desc
)

// Spec maps an option to the item field and direction it sorts by.
type Spec struct {
	Field     string
	Direction Direction
}

var specs = map[Option]Spec{
	Newest:    {Field: item.FieldCreatedAt, Direction: Desc},
	Oldest:    {Field: item.FieldCreatedAt, Direction: Asc},
	Updated:   {Field: item.FieldUpdatedAt, Direction: Desc},
	Views:     {Field: item.FieldViewCounter, Direction: Desc},
	Likes:     {Field: item.FieldGoodCounter, Direction: Desc},
	Bookmarks: {Field: item.FieldBookShelfCounter, Direction: Desc},
}

// All returns every option in display order.
func All() []Option {
	return []Option{Newest, Oldest, Updated, Views, Likes, Bookmarks}
}

// IsValid checks if the option is one of the supported values.
func (o Option) IsValid() bool {
	_, ok := specs[o]
	return ok
}

// Spec returns the field/direction pair for the option.
func (o Option) Spec() (Spec, bool) {
	s, ok := specs[o]
	return s, ok
}

// Parse returns the option named by s, or Default.
func Parse(s string) Option {
	if o := Option(s); o.IsValid() {
		return o
	}
	return Default
}

// Sort returns a sorted copy of items. The input is never modified.
// Users are never sorted, and unknown options return an unsorted copy.
// Equal keys keep input order.
func Sort(items []item.Item, o Option, t content.Type) []item.Item {
	out := slices.Clone(items)
	spec, ok := specs[o]
	if !ok || t == content.Users || len(out) < 2 {
		return out
	}

	type keyed struct {
		key float64
		it  item.Item
	}
	ks := make([]keyed, len(out))
	for i, it := range out {
		ks[i] = keyed{key: sortKey(it, spec.Field), it: it}
	}

	sort.SliceStable(ks, func(a, b int) bool {
		if spec.Direction == Asc {
			return ks[a].key < ks[b].key
		}
		return ks[a].key > ks[b].key
	})

	for i := range ks {
		out[i] = ks[i].it
	}
	return out
}

// sortKey reads the comparison key: timestamps compare by epoch millis,
// counters numerically, and anything missing as 0.
func sortKey(it item.Item, field string) float64 {
	if field == item.FieldCreatedAt || field == item.FieldUpdatedAt {
		if t, ok := it.Time(field); ok {
			return float64(t.UnixMilli())
		}
		return 0
	}
	return it.Number(field)
}
