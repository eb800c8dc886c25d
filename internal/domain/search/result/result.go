// Package result holds the accumulated results of one search session.
package result

import (
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
)

// Chunk is one upstream response: a batch of items and the server-reported
// total (0 when the server does not report one).
type Chunk struct {
	Items []item.Item `json:"results"`
	Total int         `json:"total"`
}

// Totals counts accumulated results. All is the server-reported total when
// the server provides one; General and R18 count what was fetched.
type Totals struct {
	All     int `json:"all"`
	General int `json:"general"`
	R18     int `json:"r18"`
}

// Set keeps every fetched item in arrival order, plus the general and r18
// partitions. The partitions are disjoint and together equal All.
type Set struct {
	all     []item.Item
	general []item.Item
	r18     []item.Item
	totals  Totals
}

// New creates a set from the first chunk and the server total (<= 0 when unknown).
func New(items []item.Item, serverTotal int) *Set {
	s := &Set{}
	s.Append(items, serverTotal)
	return s
}

// Append adds a chunk after the existing items.
func (s *Set) Append(items []item.Item, serverTotal int) {
	prev := len(s.all)
	for _, it := range items {
		s.all = append(s.all, it)
		if it.IsAdult() {
			s.r18 = append(s.r18, it)
			s.totals.R18++
		} else {
			s.general = append(s.general, it)
			s.totals.General++
		}
	}
	if serverTotal > 0 {
		s.totals.All = serverTotal
	} else {
		s.totals.All = prev + len(items)
	}
}

// Snapshot returns a read-only view of the current contents. Later appends
// do not change the snapshot.
func (s *Set) Snapshot() *Set {
	c := *s
	c.all = c.all[:len(c.all):len(c.all)]
	c.general = c.general[:len(c.general):len(c.general)]
	c.r18 = c.r18[:len(c.r18):len(c.r18)]
	return &c
}

// Len returns the number of fetched items.
func (s *Set) Len() int { return len(s.all) }

// All returns every fetched item.
func (s *Set) All() []item.Item { return s.all }

// Bucket returns the partition selected by an age filter.
func (s *Set) Bucket(age query.AgeFilter) []item.Item {
	switch age {
	case query.AgeGeneral:
		return s.general
	case query.AgeR18:
		return s.r18
	default:
		return s.all
	}
}

// Totals returns the accumulated counters.
func (s *Set) Totals() Totals { return s.totals }
