package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stats struct {
	Posts int `json:"posts"`
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c, ms, _ := newTestCache(t, 0)
	ctx := context.Background()
	stamp := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return stamp }

	c.Set(ctx, "user_stats_42", stats{Posts: 7})

	if _, ok := ms.data["novelsearch:cache:stats:user_stats_42"]; !ok {
		t.Fatalf("unexpected keys: %v", ms.data)
	}
	if ms.ttls["novelsearch:cache:stats:user_stats_42"] != 0 {
		t.Error("zero retention must not set a TTL")
	}

	e, ok := c.Get(ctx, "user_stats_42")
	if !ok {
		t.Fatal("expected hit")
	}
	if !e.Timestamp.Equal(stamp) {
		t.Errorf("Timestamp = %v", e.Timestamp)
	}
	var got stats
	if err := e.Decode(&got); err != nil || got.Posts != 7 {
		t.Errorf("Decode = %+v, %v", got, err)
	}
}

func TestCache_Retention(t *testing.T) {
	c, ms, _ := newTestCache(t, 10*time.Minute)
	c.Set(context.Background(), "k", 1)
	if ms.ttls["novelsearch:cache:stats:k"] != 10*time.Minute {
		t.Errorf("ttl = %v", ms.ttls)
	}
}

func TestCache_Miss(t *testing.T) {
	c, _, _ := newTestCache(t, 0)
	if _, ok := c.Get(context.Background(), "absent"); ok {
		t.Error("expected miss")
	}
}

func TestCache_StoreErrorsAreMisses(t *testing.T) {
	c, ms, _ := newTestCache(t, 0)
	ctx := context.Background()

	ms.setErr = errors.New("READONLY")
	c.Set(ctx, "k", 1)

	ms.setErr = nil
	ms.getErr = errors.New("connection reset")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss on store error")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	c, ms, _ := newTestCache(t, 0)
	ms.data["novelsearch:cache:stats:k"] = []byte("{not json")
	if _, ok := c.Get(context.Background(), "k"); ok {
		t.Error("expected miss for corrupt entry")
	}
}

func TestCache_DeleteAndObserve(t *testing.T) {
	c, ms, counter := newTestCache(t, 0)
	ctx := context.Background()
	c.Set(ctx, "k", 1)
	c.Delete(ctx, "k")
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss after delete")
	}
	if len(ms.deleted) != 1 {
		t.Errorf("deleted = %v", ms.deleted)
	}

	c.Observe("hit")
	c.Observe("hit")
	if v := testutil.ToFloat64(counter.WithLabelValues("stats", "hit")); v != 2 {
		t.Errorf("hit counter = %f", v)
	}
}
