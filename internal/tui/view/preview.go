package view

import (
	"fmt"
	"strings"

	"feedcut/internal/render/desc"
	"feedcut/internal/session"
	tuitheme "feedcut/internal/tui/theme"
)

// PreviewBody renders the generated feed summary, or the raw document
// when showXML is set. epBlocks is aligned with the preview's episode
// list.
func PreviewBody(p session.Preview, feedBlock desc.Block, epBlocks []desc.Block, showXML bool, th tuitheme.Theme) []string {
	if showXML {
		return xmlLines(p.XML, th)
	}

	lines := []string{th.Section.Render("Generated feed")}
	lines = append(lines, "  "+th.Title.Render(p.Feed.Title))
	if p.Feed.Image != "" {
		lines = append(lines, "  "+th.MetaLabel.Render("artwork")+" "+th.URL.Render(p.Feed.Image))
	}
	for _, line := range feedBlock.VisibleLines() {
		lines = append(lines, "  "+line)
	}
	if hidden := feedBlock.HiddenLineCount(); hidden > 0 {
		lines = append(lines, "  "+th.Hint.Render(fmt.Sprintf("… %d more lines (o to expand)", hidden)))
	}

	lines = append(lines, "", th.MetaValue.Render(fmt.Sprintf("%d episode(s) selected", len(p.Feed.Episodes))))

	for i, ep := range p.Feed.Episodes {
		published := ep.Published
		if published == "" {
			published = "no publish date"
		}
		lines = append(lines, "", "  "+th.TitleIncluded.Render(ep.Title)+"  "+th.MetaLabel.Render(published))
		if i < len(epBlocks) {
			for _, line := range epBlocks[i].VisibleLines() {
				lines = append(lines, "    "+line)
			}
			if hidden := epBlocks[i].HiddenLineCount(); hidden > 0 {
				lines = append(lines, "    "+th.Hint.Render(fmt.Sprintf("… %d more lines", hidden)))
			}
		}
		if ep.Link != "" {
			lines = append(lines, "    "+th.URL.Render(ep.Link))
		}
	}

	if p.PublishedURL != "" {
		lines = append(lines, "", th.StateIdle.Render("Published: ")+th.URL.Render(p.PublishedURL))
	}
	return lines
}

func xmlLines(xml string, th tuitheme.Theme) []string {
	lines := []string{th.Section.Render("Feed document")}
	for _, line := range strings.Split(xml, "\n") {
		lines = append(lines, "  "+line)
	}
	return lines
}
