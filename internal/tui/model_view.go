package tui

import (
	"strings"

	"feedcut/internal/render/desc"
	"feedcut/internal/session"
	tuistate "feedcut/internal/tui/state"
	"feedcut/internal/tui/view"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(view.Header(m.sess.Stage(), m.sess.Title, m.theme))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(m.helpView())
	} else {
		b.WriteString(view.Toolbar(m.sess.Stage(), m.input != inputNone))
		b.WriteString("\n\n")
		for _, line := range m.bodyLines() {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.input != inputNone {
		b.WriteString(view.InputLine(m.inputLabel(), m.inputBuffer, m.theme))
		b.WriteString("\n")
	}
	b.WriteString(view.Message(m.loading, m.status, m.err, m.theme))
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) bodyLines() []string {
	switch m.sess.Stage() {
	case session.StageEmpty:
		return view.EmptyBody(m.recent, m.publishes, m.recentCursor, m.theme)
	case session.StageEditing:
		return m.editBodyLines()
	case session.StagePreviewing:
		preview := m.sess.Preview()
		if preview == nil {
			return nil
		}
		lines := m.previewLines(*preview)
		start := tuistate.ScrollTop(m.previewTop, len(lines), m.bodyHeight())
		end := start + m.bodyHeight()
		if m.bodyHeight() <= 0 || end > len(lines) {
			end = len(lines)
		}
		return lines[start:end]
	}
	return nil
}

func (m Model) editBodyLines() []string {
	lines := view.MetadataPanel(m.sess.Title, m.sess.Description, m.sess.Image(), m.theme)
	lines = append(lines, "", m.theme.Section.Render("Episodes"))

	visible := m.sess.Visible()
	if len(visible) == 0 {
		if m.sess.FilterTerm != "" {
			return append(lines, "  "+m.theme.Hint.Render("no episodes match the filter"))
		}
		return append(lines, "  "+m.theme.Hint.Render("feed has no episodes"))
	}

	cursor := tuistate.ClampCursor(m.cursor, len(visible))
	cursorLine := 0
	cards := make([]string, 0, len(visible)*4)
	for i, ep := range visible {
		if i == cursor {
			cursorLine = len(cards)
		}
		block := m.episodeBlock(ep)
		cards = append(cards, view.EpisodeCard(ep, i == cursor, m.compact, block, m.theme)...)
	}

	height := m.bodyHeight() - len(lines)
	start, end := tuistate.CenteredWindow(len(cards), cursorLine, height)
	return append(lines, cards[start:end]...)
}

func (m Model) episodeBlock(ep session.Episode) desc.Block {
	block := desc.Present(ep.Description, listCollapseThreshold, m.contentWidth())
	if m.expanded[ep.ID] && block.Collapsed() {
		block.Toggle()
	}
	return block
}

func (m Model) previewLines(p session.Preview) []string {
	feedBlock := desc.Present(p.Feed.Description, feedCollapseThreshold, m.contentWidth())
	if m.previewExpanded && feedBlock.Collapsed() {
		feedBlock.Toggle()
	}
	epBlocks := make([]desc.Block, len(p.Feed.Episodes))
	for i, ep := range p.Feed.Episodes {
		epBlocks[i] = desc.Present(ep.Description, listCollapseThreshold, m.contentWidth())
		if m.previewEpExpanded && epBlocks[i].Collapsed() {
			epBlocks[i].Toggle()
		}
	}
	return view.PreviewBody(p, feedBlock, epBlocks, m.showXML, m.theme)
}

func (m Model) previewLineCount(p session.Preview) int {
	return len(m.previewLines(p))
}

// bodyHeight is the rows left for the body after header, toolbar,
// message panel and footer. Zero height (as in tests) means no window.
func (m Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	height := m.height - 7
	if m.input != inputNone {
		height--
	}
	if height < 3 {
		height = 3
	}
	return height
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 74
	}
	width := m.width - 8
	if width < 20 {
		width = 20
	}
	return width
}

func (m Model) footer() string {
	total := 0
	selected := 0
	shown := 0
	if c := m.sess.Collection(); c != nil {
		total = c.Len()
		selected = c.SelectedCount()
		shown = len(m.sess.Visible())
	}
	return view.Footer(m.sess.Stage(), m.sess.FilterTerm, shown, selected, total, m.theme)
}

func (m Model) inputLabel() string {
	switch m.input {
	case inputURL:
		return "Feed URL"
	case inputFile:
		return "File path"
	case inputFilter:
		return "Filter"
	case inputTitle:
		return "Feed title"
	case inputDescription:
		return "Feed description"
	default:
		return ""
	}
}

func (m Model) helpView() string {
	lines := []string{
		"Load:",
		"  u type a feed URL, f type a local file path",
		"  j/k pick a recent source, enter reloads it",
		"Edit:",
		"  j/k/arrows move, g/G top/bottom, pgup/pgdown jump",
		"  space includes/excludes the episode under the cursor",
		"  a selects all, x clears the selection, v selects the filtered view",
		"  / edits the filter term, ctrl+l clears it",
		"  r reverses the order, R restores the loaded order",
		"  t/d edit the feed title/description, o expands a description",
		"  c toggles compact cards, p toggles confirm-before-publish",
		"  u/f load another feed, replacing the whole session",
		"  enter generates the feed and opens the preview",
		"Preview:",
		"  j/k scroll, x shows the raw document, o/e expand descriptions",
		"  u publishes, y copies the published URL",
		"  esc returns to the editor and discards the generated document",
	}
	return strings.Join(lines, "\n") + "\n"
}
