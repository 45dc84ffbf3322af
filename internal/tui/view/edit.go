package view

import (
	"fmt"

	"feedcut/internal/render/desc"
	"feedcut/internal/session"
	tuitheme "feedcut/internal/tui/theme"
)

// EpisodeCard renders one episode of the editing list. The block is
// the episode's description already presented at the caller's
// collapse threshold and expand state.
func EpisodeCard(ep session.Episode, active, compact bool, block desc.Block, th tuitheme.Theme) []string {
	marker := "  "
	if active {
		marker = "> "
	}
	box := "[ ]"
	if !ep.Skip {
		box = "[x]"
	}
	published := ep.Published
	if published == "" {
		published = "no publish date"
	}

	head := fmt.Sprintf("%s%s %s", marker, box, th.StyleEpisodeTitle(ep, ep.Title))
	lines := []string{th.RenderActiveLine(active, head)}
	if compact {
		return lines
	}

	lines = append(lines, "      "+th.MetaLabel.Render(published))
	for _, line := range block.VisibleLines() {
		lines = append(lines, "      "+line)
	}
	if hidden := block.HiddenLineCount(); hidden > 0 {
		lines = append(lines, "      "+th.Hint.Render(fmt.Sprintf("… %d more lines (o to expand)", hidden)))
	}
	return lines
}

// MetadataPanel shows the editable feed fields above the episode list.
func MetadataPanel(title, description, image string, th tuitheme.Theme) []string {
	lines := []string{
		th.Section.Render("Feed"),
		"  " + th.MetaLabel.Render("title") + " " + th.MetaValue.Render(title) + " " + th.Hint.Render("(t to edit)"),
		"  " + th.MetaLabel.Render("description") + " " + th.MetaValue.Render(firstLine(description)) + " " + th.Hint.Render("(d to edit)"),
	}
	if image != "" {
		lines = append(lines, "  "+th.MetaLabel.Render("artwork")+" "+th.URL.Render(image))
	}
	return lines
}

func firstLine(s string) string {
	const max = 70
	for i, r := range s {
		if r == '\n' || i >= max {
			return s[:i] + "…"
		}
	}
	return s
}
