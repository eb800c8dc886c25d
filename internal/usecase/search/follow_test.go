package search

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
)

// concurrencyProbe counts how many IsFollowing calls overlap.
type concurrencyProbe struct {
	*fakeFollows
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (p *concurrencyProbe) IsFollowing(ctx context.Context, userID string) (bool, error) {
	n := p.inFlight.Add(1)
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	p.inFlight.Add(-1)
	return p.fakeFollows.IsFollowing(ctx, userID)
}

func TestFollowTracker_BatchesBounded(t *testing.T) {
	probe := &concurrencyProbe{fakeFollows: newFakeFollows()}
	tr := NewFollowTracker(probe, 4)

	users := make([]item.Item, 10)
	for i := range users {
		users[i] = item.Item{"_id": "u" + strconv.Itoa(i)}
	}
	probe.following["u9"] = true

	tr.Check(context.Background(), users)

	if peak := probe.peak.Load(); peak > 4 {
		t.Errorf("peak concurrency %d exceeds batch size 4", peak)
	}
	if len(probe.checked) != 10 {
		t.Errorf("checked %d users", len(probe.checked))
	}
	if !tr.IsFollowed("u9") || tr.IsFollowed("u0") {
		t.Errorf("Followed() = %v", tr.Followed())
	}
}

func TestFollowTracker_SkipsUsersWithoutID(t *testing.T) {
	follows := newFakeFollows()
	tr := NewFollowTracker(follows, 0)
	tr.Check(context.Background(), []item.Item{{}, {"_id": "x"}})
	if len(follows.checked) != 1 {
		t.Errorf("checked = %v", follows.checked)
	}
}

func TestFollowTracker_NilClient(t *testing.T) {
	tr := NewFollowTracker(nil, 0)
	tr.Check(context.Background(), []item.Item{{"_id": "x"}})
	if got := tr.Followed(); len(got) != 0 {
		t.Errorf("Followed() = %v", got)
	}
}
