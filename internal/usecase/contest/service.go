// Package contest serves the contest preview shown for a contest tag.
package contest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/novelsearch/internal/domain"
	"github.com/kailas-cloud/novelsearch/internal/domain/cached"
)

// Service memoizes contest previews per tag. Failed lookups are not cached,
// and concurrent lookups of the same tag share one upstream call.
type Service struct {
	client Client
	cache  Cache
	policy cached.TTLPolicy
	now    func() time.Time
	group  singleflight.Group
}

// New creates a Service. A nil policy keeps previews until the cache drops them.
func New(client Client, cache Cache, policy cached.TTLPolicy) *Service {
	if policy == nil {
		policy = cached.Forever{}
	}
	return &Service{client: client, cache: cache, policy: policy, now: time.Now}
}

// ByTag returns the contests carrying tag.
func (s *Service) ByTag(ctx context.Context, tag string) (json.RawMessage, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, fmt.Errorf("contest tag is empty: %w", domain.ErrInvalidQuery)
	}

	key := Key(tag)
	if e, ok := s.cache.Get(ctx, key); ok {
		if s.policy.Fresh(e, s.now()) {
			s.cache.Observe("hit")
			return e.Value, nil
		}
		s.cache.Observe("expired")
	} else {
		s.cache.Observe("miss")
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		raw, err := s.client.ContestsByTag(ctx, tag)
		if err != nil {
			return nil, err
		}
		if !json.Valid(raw) {
			return nil, fmt.Errorf("invalid JSON body")
		}
		s.cache.Set(ctx, key, raw)
		return raw, nil
	})
	if err != nil {
		return nil, fmt.Errorf("contests for tag %q: %w", tag, err)
	}
	return v.(json.RawMessage), nil
}

// Key is the cache key of a tag's contest preview.
func Key(tag string) string { return "contest_tag_" + tag }
