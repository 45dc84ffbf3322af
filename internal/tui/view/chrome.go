// Package view builds display strings for the TUI. Everything here is
// a pure function of its inputs; the model decides what to show, view
// decides how it looks.
package view

import (
	"fmt"
	"strings"

	"feedcut/internal/session"
	tuitheme "feedcut/internal/tui/theme"
)

func Header(stage session.Stage, feedTitle string, th tuitheme.Theme) string {
	title := th.Title.Render("feedcut")
	pill := th.StagePill.Render(stage.String())
	if feedTitle == "" {
		return title + " " + pill
	}
	return title + " " + pill + " " + th.MetaValue.Render(feedTitle)
}

func Toolbar(stage session.Stage, inputActive bool) string {
	if inputActive {
		return "type to edit | enter confirm | esc cancel"
	}
	switch stage {
	case session.StageEmpty:
		return "j/k pick recent | enter load | u load by URL | f load file | ? help | q quit"
	case session.StageEditing:
		return "j/k move | space include/exclude | o description | / filter | v select filtered | a all | x none | r reverse | enter generate | u/f load another | ? help | q quit"
	case session.StagePreviewing:
		return "j/k scroll | x xml | u publish | y copy URL | esc back to editor | ? help | q quit"
	default:
		return "? help | q quit"
	}
}

func Footer(stage session.Stage, filterTerm string, shown, selected, total int, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("stage") + " " + th.MetaValue.Render(stage.String()),
	}
	if stage != session.StageEmpty {
		parts = append(parts,
			th.MetaValue.Render(fmt.Sprintf("%d/%d selected", selected, total)),
			th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
		)
	}
	if filterTerm != "" {
		parts = append(parts, th.MetaLabel.Render("filter")+" "+th.MetaValue.Render(fmt.Sprintf("%q", filterTerm)))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, status string, warning error, th tuitheme.Theme) string {
	state := "idle"
	stateLabel := th.StateIdle.Render("state")
	if loading {
		state = "loading"
		stateLabel = th.StateLoad.Render("state")
	}
	if warning != nil {
		state = "warning"
		stateLabel = th.StateWarn.Render("state")
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if warning != nil {
		main = warning.Error()
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

// InputLine is the single-line editor shown while the user types a
// URL, path, filter term or metadata field.
func InputLine(label, buffer string, th tuitheme.Theme) string {
	return th.Section.Render(label+":") + " " + buffer + "_"
}
