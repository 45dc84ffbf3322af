package view

import (
	"feedcut/internal/storage"
	tuitheme "feedcut/internal/tui/theme"
)

// EmptyBody renders the pre-load screen: instructions, the recent
// source list, and the publish history.
func EmptyBody(recent []storage.Source, publishes []storage.Publish, cursor int, th tuitheme.Theme) []string {
	lines := []string{
		th.Section.Render("Load a feed"),
		"  " + th.MetaValue.Render("u") + " " + th.MetaLabel.Render("load from a feed URL"),
		"  " + th.MetaValue.Render("f") + " " + th.MetaLabel.Render("load from a local file"),
	}

	if len(recent) > 0 {
		lines = append(lines, "", th.Section.Render("Recent"))
		for i, src := range recent {
			marker := "  "
			if i == cursor {
				marker = "> "
			}
			title := src.Title
			if title == "" {
				title = src.URL
			}
			line := marker + th.MetaValue.Render(title) + " " + th.MetaLabel.Render(src.URL)
			lines = append(lines, th.RenderActiveLine(i == cursor, line))
		}
	}

	if len(publishes) > 0 {
		lines = append(lines, "", th.Section.Render("Published"))
		for _, pub := range publishes {
			title := pub.FeedTitle
			if title == "" {
				title = pub.URL
			}
			lines = append(lines, "  "+th.MetaValue.Render(title)+" "+th.URL.Render(pub.URL))
		}
	}
	return lines
}
