package theme

import (
	"strings"
	"testing"

	"feedcut/internal/session"
)

func TestStyleEpisodeTitleKeepsText(t *testing.T) {
	th := Default()

	got := th.StyleEpisodeTitle(session.Episode{}, "Alpha")
	if !strings.Contains(got, "Alpha") {
		t.Fatalf("included title lost: %q", got)
	}

	got = th.StyleEpisodeTitle(session.Episode{Skip: true}, "Alpha")
	if !strings.Contains(got, "Alpha") {
		t.Fatalf("skipped title lost: %q", got)
	}

	if got := th.StyleEpisodeTitle(session.Episode{}, ""); got != "" {
		t.Fatalf("empty title should render empty, got %q", got)
	}
}

func TestRenderActiveLine(t *testing.T) {
	th := Default()

	if got := th.RenderActiveLine(false, "plain"); got != "plain" {
		t.Fatalf("inactive line must pass through: %q", got)
	}
	if got := th.RenderActiveLine(true, "active"); !strings.Contains(got, "active") {
		t.Fatalf("active line lost its text: %q", got)
	}
}
