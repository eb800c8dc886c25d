package page

import (
	"math"
	"testing"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		count, size, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{1137, 100, 12},
		{5, 0, 1},
		{5, math.MaxInt, 1},
		{math.MaxInt, 1, math.MaxInt},
		{math.MaxInt, 2, math.MaxInt/2 + 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.count, tt.size); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.count, tt.size, got, tt.want)
		}
	}
}

func TestSlice(t *testing.T) {
	items := make([]item.Item, 23)
	for i := range items {
		items[i] = item.Item{"n": float64(i)}
	}

	if got := Slice(items, 1, 10); len(got) != 10 || got[0].Number("n") != 0 {
		t.Errorf("page 1: %v", got)
	}
	if got := Slice(items, 3, 10); len(got) != 3 || got[0].Number("n") != 20 {
		t.Errorf("page 3: %v", got)
	}
	if got := Slice(items, 4, 10); got == nil || len(got) != 0 {
		t.Errorf("page 4 should be empty, got %v", got)
	}
	if got := Slice(items, 0, 10); len(got) != 10 {
		t.Errorf("page 0 should read as page 1, got %d items", len(got))
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name                string
		count, number, size int
		want                Info
	}{
		{"first", 23, 1, 10, Info{1, 10, 23}},
		{"last partial", 23, 3, 10, Info{21, 23, 23}},
		{"past end", 23, 9, 10, Info{0, 0, 23}},
		{"empty", 0, 1, 10, Info{0, 0, 0}},
		{"huge size", 23, 100, 100000000000000000, Info{0, 0, 23}},
		{"huge page", 23, math.MaxInt, 10, Info{0, 0, 23}},
		{"first page of huge size", 23, 1, math.MaxInt, Info{1, 23, 23}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.count, tt.number, tt.size); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNearestSize(t *testing.T) {
	tests := map[int]int{0: 10, 10: 10, 14: 10, 15: 10, 16: 20, 35: 20, 36: 50, 75: 50, 76: 100, 1000: 100}
	for in, want := range tests {
		if got := NearestSize(in); got != want {
			t.Errorf("NearestSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestBounds_Saturates(t *testing.T) {
	tests := []struct {
		name             string
		number, size     int
		wantFrom, wantTo int
	}{
		{"normal", 3, 10, 20, 30},
		{"huge size", 100, 100000000000000000, math.MaxInt, math.MaxInt},
		{"huge page", math.MaxInt, 10, math.MaxInt, math.MaxInt},
		{"first page max size", 1, math.MaxInt, 0, math.MaxInt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := Bounds(tt.number, tt.size)
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("Bounds(%d, %d) = %d, %d; want %d, %d",
					tt.number, tt.size, from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}

func TestSlice_HugeValuesAreEmpty(t *testing.T) {
	items := make([]item.Item, 23)
	for i := range items {
		items[i] = item.Item{"n": float64(i)}
	}
	if got := Slice(items, 100, 100000000000000000); len(got) != 0 {
		t.Errorf("expected empty page, got %d items", len(got))
	}
	if got := Slice(items, 1, math.MaxInt); len(got) != 23 {
		t.Errorf("expected all items on page 1, got %d", len(got))
	}
}
