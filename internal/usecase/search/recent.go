package search

import (
	"slices"
	"strings"
	"sync"
)

// DefaultRecentLimit is the number of recent search terms kept.
const DefaultRecentLimit = 5

// RecentSearches remembers the latest distinct search terms, newest first.
type RecentSearches struct {
	limit int

	mu    sync.Mutex
	terms []string
}

// NewRecentSearches creates an empty list. limit <= 0 selects DefaultRecentLimit.
func NewRecentSearches(limit int) *RecentSearches {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentSearches{limit: limit}
}

// Add records term. Blank terms are ignored and repeats move to the front.
func (r *RecentSearches) Add(term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.terms = slices.DeleteFunc(r.terms, func(t string) bool { return t == term })
	r.terms = slices.Insert(r.terms, 0, term)
	if len(r.terms) > r.limit {
		r.terms = r.terms[:r.limit]
	}
}

// List returns the terms, newest first.
func (r *RecentSearches) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.terms))
	copy(out, r.terms)
	return out
}
