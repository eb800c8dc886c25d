package result

import (
	"testing"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
)

func chunk(from, n int, adultEvery int) []item.Item {
	out := make([]item.Item, 0, n)
	for i := from; i < from+n; i++ {
		it := item.Item{"_id": float64(i)}
		if adultEvery > 0 && i%adultEvery == 0 {
			it["isAdultContent"] = true
		}
		out = append(out, it)
	}
	return out
}

func TestNew_PartitionsByAdultFlag(t *testing.T) {
	s := New(chunk(0, 10, 3), 42)

	if s.Len() != 10 {
		t.Fatalf("Len() = %d", s.Len())
	}
	r18 := s.Bucket(query.AgeR18)
	general := s.Bucket(query.AgeGeneral)
	if len(r18)+len(general) != s.Len() {
		t.Errorf("partitions do not cover all: %d + %d", len(r18), len(general))
	}
	for _, it := range r18 {
		if !it.IsAdult() {
			t.Errorf("non-adult item %s in r18", it.ID())
		}
	}

	want := Totals{All: 42, General: 6, R18: 4}
	if s.Totals() != want {
		t.Errorf("Totals() = %+v, want %+v", s.Totals(), want)
	}
}

func TestAppend_KeepsArrivalOrder(t *testing.T) {
	s := New(chunk(0, 3, 0), 0)
	s.Append(chunk(3, 2, 0), 0)

	all := s.Bucket(query.AgeAll)
	for i, it := range all {
		if it.Number("_id") != float64(i) {
			t.Fatalf("item %d has id %s", i, it.ID())
		}
	}
}

func TestAppend_TotalWithoutServerCount(t *testing.T) {
	s := New(chunk(0, 500, 0), 0)
	if s.Totals().All != 500 {
		t.Errorf("All = %d, want 500", s.Totals().All)
	}
	s.Append(chunk(500, 137, 0), -1)
	if s.Totals().All != 637 {
		t.Errorf("All = %d, want 637", s.Totals().All)
	}
}

func TestAppend_ServerTotalWins(t *testing.T) {
	s := New(chunk(0, 5, 0), 1137)
	s.Append(chunk(5, 5, 0), 1137)
	if s.Totals().All != 1137 {
		t.Errorf("All = %d, want 1137", s.Totals().All)
	}
}

func TestNew_Empty(t *testing.T) {
	s := New(nil, 0)
	if s.Len() != 0 || len(s.Bucket(query.AgeGeneral)) != 0 || s.Totals() != (Totals{}) {
		t.Errorf("unexpected empty set: %+v", s.Totals())
	}
}

func TestSnapshot_IsolatedFromAppends(t *testing.T) {
	s := New(chunk(0, 4, 2), 0)
	snap := s.Snapshot()

	s.Append(chunk(4, 4, 2), 0)
	if snap.Len() != 4 || len(snap.Bucket(query.AgeR18)) != 2 {
		t.Errorf("snapshot changed: len=%d r18=%d", snap.Len(), len(snap.Bucket(query.AgeR18)))
	}
	if snap.Totals().All != 4 {
		t.Errorf("snapshot totals changed: %+v", snap.Totals())
	}

	snap.Append(chunk(100, 1, 0), 0)
	if s.Len() != 8 {
		t.Errorf("appending to a snapshot changed the source: %d", s.Len())
	}
}
