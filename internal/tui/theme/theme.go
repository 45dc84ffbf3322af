package theme

import (
	"github.com/charmbracelet/lipgloss"

	"feedcut/internal/session"
)

type Theme struct {
	Title     lipgloss.Style
	StagePill lipgloss.Style
	Section   lipgloss.Style

	ActiveLine lipgloss.Style
	MetaLabel  lipgloss.Style
	MetaValue  lipgloss.Style
	Hint       lipgloss.Style
	URL        lipgloss.Style

	StateIdle lipgloss.Style
	StateWarn lipgloss.Style
	StateLoad lipgloss.Style

	TitleIncluded lipgloss.Style
	TitleSkipped  lipgloss.Style
}

func Default() Theme {
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpPeach := lipgloss.Color("#fab387")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")

	return Theme{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		StagePill: lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(cpTeal),

		ActiveLine: lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:  lipgloss.NewStyle().Foreground(cpOverlay1),
		MetaValue:  lipgloss.NewStyle().Foreground(cpSubtext1),
		Hint:       lipgloss.NewStyle().Italic(true).Foreground(cpOverlay1),
		URL:        lipgloss.NewStyle().Underline(true).Foreground(cpLavender),

		StateIdle: lipgloss.NewStyle().Foreground(cpGreen),
		StateWarn: lipgloss.NewStyle().Foreground(cpRed),
		StateLoad: lipgloss.NewStyle().Foreground(cpPeach),

		TitleIncluded: lipgloss.NewStyle().Bold(true).Foreground(cpText),
		TitleSkipped:  lipgloss.NewStyle().Strikethrough(true).Foreground(cpSubtext0),
	}
}

// StyleEpisodeTitle renders a title according to its inclusion state.
func (t Theme) StyleEpisodeTitle(ep session.Episode, title string) string {
	if title == "" {
		return title
	}
	if ep.Skip {
		return t.TitleSkipped.Render(title)
	}
	return t.TitleIncluded.Render(title)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
