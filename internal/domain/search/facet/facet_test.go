package facet

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
)

func TestCollect_Tags(t *testing.T) {
	items := []item.Item{
		{"tags": []any{"a", "b"}},
		{"tags": []any{"a"}},
	}
	got := Collect(items, Tag)
	want := []Count{{Label: "a", Count: 2}, {Label: "b", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCollect_TiesKeepFirstSeenOrder(t *testing.T) {
	items := []item.Item{
		{"tags": []any{"z", "y"}},
		{"tags": []any{"x", "y"}},
		{"tags": []any{"x", "z"}},
		{"tags": []any{"w"}},
	}
	got := Collect(items, Tag)
	want := []Count{
		{Label: "z", Count: 2},
		{Label: "y", Count: 2},
		{Label: "x", Count: 2},
		{Label: "w", Count: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCollect_MissingAndMalformedFields(t *testing.T) {
	items := []item.Item{
		{},
		{"tags": "not-a-list"},
		{"tags": []any{1, "ok", nil}},
		{"aiEvidence": "broken"},
		{"aiEvidence": map[string]any{"tools": []any{"ChatGPT", "Claude"}}},
		{"aiEvidence": map[string]any{"tools": []any{"Claude"}}},
		{"contestTags": []any{"夏"}},
	}

	if got := Collect(items, Tag); !reflect.DeepEqual(got, []Count{{Label: "ok", Count: 1}}) {
		t.Errorf("tags: got %v", got)
	}
	wantTools := []Count{{Label: "Claude", Count: 2}, {Label: "ChatGPT", Count: 1}}
	if got := Collect(items, AITool); !reflect.DeepEqual(got, wantTools) {
		t.Errorf("aiTools: got %v, want %v", got, wantTools)
	}
	if got := Collect(items, ContestTag); !reflect.DeepEqual(got, []Count{{Label: "夏", Count: 1}}) {
		t.Errorf("contestTags: got %v", got)
	}
}

func TestCollect_EmptyInput(t *testing.T) {
	got := Collect(nil, Tag)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if got := Collect(nil, Kind("bogus")); len(got) != 0 {
		t.Errorf("unknown kind should be empty, got %v", got)
	}
}

func TestCollectClouds_SeriesOnlyTags(t *testing.T) {
	items := []item.Item{
		{
			"tags":        []any{"fantasy"},
			"aiEvidence":  map[string]any{"tools": []any{"ChatGPT"}},
			"contestTags": []any{"c1"},
		},
	}

	posts := CollectClouds(items, content.Posts)
	if len(posts.Tags) != 1 || len(posts.AITools) != 1 || len(posts.ContestTags) != 1 {
		t.Errorf("posts clouds: %+v", posts)
	}

	series := CollectClouds(items, content.Series)
	if len(series.Tags) != 1 || len(series.AITools) != 0 || len(series.ContestTags) != 0 {
		t.Errorf("series clouds: %+v", series)
	}

	users := CollectClouds(items, content.Users)
	if len(users.Tags) != 0 {
		t.Errorf("users clouds: %+v", users)
	}
}

func TestCollect_IncrementalEqualsFull(t *testing.T) {
	first := []item.Item{{"tags": []any{"a", "b"}}, {"tags": []any{"b"}}}
	second := []item.Item{{"tags": []any{"a", "c"}}, {"tags": []any{"a"}}}

	all := append(append([]item.Item{}, first...), second...)
	got := Collect(all, Tag)
	want := []Count{{Label: "a", Count: 3}, {Label: "b", Count: 2}, {Label: "c", Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
