// Package cached defines timestamped cache entries and their freshness policies.
package cached

import (
	"encoding/json"
	"fmt"
	"time"
)

// Entry is a cached value with the time it was written.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the cached value into v.
func (e Entry) Decode(v any) error {
	if err := json.Unmarshal(e.Value, v); err != nil {
		return fmt.Errorf("decode cached value: %w", err)
	}
	return nil
}

// TTLPolicy decides whether a cached entry can still be served.
type TTLPolicy interface {
	Fresh(e Entry, now time.Time) bool
}

// FixedTTL serves entries younger than the duration.
type FixedTTL time.Duration

// Fresh implements TTLPolicy.
func (t FixedTTL) Fresh(e Entry, now time.Time) bool {
	return now.Sub(e.Timestamp) < time.Duration(t)
}

// Forever serves every entry.
type Forever struct{}

// Fresh implements TTLPolicy.
func (Forever) Fresh(Entry, time.Time) bool { return true }
