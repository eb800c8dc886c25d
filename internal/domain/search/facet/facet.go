// Package facet aggregates label frequencies (tags, AI tools, contest tags)
// over a result set.
package facet

import (
	"sort"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/item"
)

// Kind selects which label field is aggregated.
type Kind string

// Facet kinds.
const (
	Tag        Kind = "tag"
	AITool     Kind = "aiTool"
	ContestTag Kind = "contestTag"
)

// Count is a label with its number of occurrences.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Clouds holds every facet cloud shown for a result set.
type Clouds struct {
	Tags        []Count `json:"tags"`
	AITools     []Count `json:"aiTools"`
	ContestTags []Count `json:"contestTags"`
}

// Collect counts the labels of kind across items, most frequent first.
// Labels with equal counts keep the order in which they were first seen.
// Items without the field contribute nothing.
func Collect(items []item.Item, kind Kind) []Count {
	read := reader(kind)
	if read == nil {
		return []Count{}
	}

	index := make(map[string]int)
	counts := make([]Count, 0)
	for _, it := range items {
		for _, label := range read(it) {
			if i, ok := index[label]; ok {
				counts[i].Count++
				continue
			}
			index[label] = len(counts)
			counts = append(counts, Count{Label: label, Count: 1})
		}
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

// CollectClouds computes all clouds for a content type. Series only carry
// tag clouds and users carry none.
func CollectClouds(items []item.Item, t content.Type) Clouds {
	switch t {
	case content.Users:
		return Clouds{Tags: []Count{}, AITools: []Count{}, ContestTags: []Count{}}
	case content.Series:
		return Clouds{
			Tags:        Collect(items, Tag),
			AITools:     []Count{},
			ContestTags: []Count{},
		}
	default:
		return Clouds{
			Tags:        Collect(items, Tag),
			AITools:     Collect(items, AITool),
			ContestTags: Collect(items, ContestTag),
		}
	}
}

func reader(kind Kind) func(item.Item) []string {
	switch kind {
	case Tag:
		return item.Item.Tags
	case AITool:
		return item.Item.AITools
	case ContestTag:
		return item.Item.ContestTags
	}
	return nil
}
