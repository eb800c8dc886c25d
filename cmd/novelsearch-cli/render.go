package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	novelsearch "github.com/kailas-cloud/novelsearch/pkg/sdk"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	adultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	facetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("32"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

const maxFacets = 10

// renderView prints one search page with its counters and facet clouds.
func renderView(v novelsearch.View) string {
	var b strings.Builder

	header := fmt.Sprintf("%s  %d-%d / %d", v.Tab, v.ResultsInfo.Start, v.ResultsInfo.End, v.ResultsInfo.Total)
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(metaStyle.Render(fmt.Sprintf(
		"page %d/%d  all %d  general %d  r18 %d",
		v.Page, v.TotalPages, v.TotalCounts.All, v.SubCounts.General, v.SubCounts.R18,
	)))
	b.WriteString("\n\n")

	if len(v.Items) == 0 {
		b.WriteString(metaStyle.Render("No results"))
		b.WriteString("\n")
	}
	for i, it := range v.Items {
		line := itemStyle.Render(fmt.Sprintf("%d. %s", v.ResultsInfo.Start+i, itemTitle(it)))
		if it.IsAdult() {
			line += " " + adultStyle.Render("R18")
		}
		b.WriteString(line)
		b.WriteString("\n")

		meta := fmt.Sprintf("   %s  views %d", it.ID(), int(it.Number("viewCounter")))
		if tags := it.Tags(); len(tags) > 0 {
			meta += "  #" + strings.Join(tags, " #")
		}
		b.WriteString(metaStyle.Render(meta))
		b.WriteString("\n")
	}

	if cloud := renderCloud(v.Facets.Tags); cloud != "" {
		b.WriteString("\n")
		b.WriteString(facetStyle.Render("tags: " + cloud))
		b.WriteString("\n")
	}
	if cloud := renderCloud(v.Facets.AITools); cloud != "" {
		b.WriteString(facetStyle.Render("ai tools: " + cloud))
		b.WriteString("\n")
	}
	if v.PageState.HasMore {
		b.WriteString(metaStyle.Render(fmt.Sprintf("more results upstream (%d chunks loaded)", v.PageState.LoadedChunks)))
		b.WriteString("\n")
	}
	return b.String()
}

func itemTitle(it novelsearch.Item) string {
	for _, field := range []string{"title", "nickname"} {
		if s, ok := it[field].(string); ok && s != "" {
			return s
		}
	}
	return it.ID()
}

func renderCloud(counts []novelsearch.FacetCount) string {
	if len(counts) > maxFacets {
		counts = counts[:maxFacets]
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		parts = append(parts, fmt.Sprintf("%s(%d)", c.Label, c.Count))
	}
	return strings.Join(parts, " ")
}

// renderRaw pretty-prints a JSON lookup result in a box.
func renderRaw(name, arg string, raw json.RawMessage) string {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(raw)
	}
	return titleStyle.Render(name+" "+arg) + "\n" + boxStyle.Render(pretty.String())
}

func renderFollow(userID string, following bool) string {
	if following {
		return okStyle.Render("following " + userID)
	}
	return metaStyle.Render("unfollowed " + userID)
}

func renderHealth(h novelsearch.HealthStatus) string {
	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names)+1)
	lines = append(lines, statusStyle(h.Status).Render("status: "+h.Status))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%-9s %s", name, statusStyle(h.Checks[name]).Render(h.Checks[name])))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func statusStyle(s string) lipgloss.Style {
	if s == "ok" {
		return okStyle
	}
	return errStyle
}
