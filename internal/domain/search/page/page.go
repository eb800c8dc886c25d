// Package page slices filtered results into fixed-size pages.
package page

import (
	"math"
	"slices"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
)

// SizeOptions are the page sizes offered to users.
var SizeOptions = []int{10, 20, 50, 100}

// Info describes the visible range: items Start..End (1-based, inclusive)
// of Total. Start and End are 0 when Total is 0.
type Info struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Total int `json:"total"`
}

// TotalPages returns ceil(count/size), at least 1.
func TotalPages(count, size int) int {
	if size <= 0 || count <= 0 {
		return 1
	}
	n := count / size
	if count%size != 0 {
		n++
	}
	return n
}

// Bounds returns the half-open item range [from, to) of a 1-based page,
// without clamping to any item count. Offsets past math.MaxInt saturate.
func Bounds(number, size int) (from, to int) {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 1
	}
	return offset(number-1, size), offset(number, size)
}

func offset(pages, size int) int {
	if pages > math.MaxInt/size {
		return math.MaxInt
	}
	return pages * size
}

// Slice returns the items of a 1-based page. Pages past the end are empty.
func Slice(items []item.Item, number, size int) []item.Item {
	from, to := Bounds(number, size)
	if from < 0 || from >= len(items) {
		return []item.Item{}
	}
	return slices.Clone(items[from:min(to, len(items))])
}

// Describe returns the visible range for a page over count items.
func Describe(count, number, size int) Info {
	from, to := Bounds(number, size)
	if count <= 0 || from < 0 || from >= count {
		return Info{Total: max(count, 0)}
	}
	return Info{Start: from + 1, End: min(to, count), Total: count}
}

// NearestSize maps n onto the closest entry of SizeOptions, preferring the
// smaller option on ties.
func NearestSize(n int) int {
	best := SizeOptions[0]
	for _, opt := range SizeOptions[1:] {
		if abs(opt-n) < abs(best-n) {
			best = opt
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
