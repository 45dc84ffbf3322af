// Package session holds the in-memory state of one feed-editing
// interaction: the episode collection, the filtered view, and the
// Load -> Edit -> Preview -> Upload workflow. Nothing here touches the
// network or the terminal; the TUI drives transitions and the feedapi
// client carries the payloads this package produces.
package session

import "feedcut/internal/feedapi"

// Stage is the explicit workflow state. All conditional behavior keys
// off this value, never off what happens to be displayed.
type Stage int

const (
	StageEmpty Stage = iota
	StageEditing
	StagePreviewing
)

func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageEditing:
		return "editing"
	case StagePreviewing:
		return "previewing"
	default:
		return "unknown"
	}
}

// Preview is the artifact of a successful render. It only exists while
// the session is previewing, and it is the sole holder of the XML that
// an upload may send: there is no other path to the upload payload, so
// publishing a document that was never rendered cannot be expressed.
type Preview struct {
	Feed         feedapi.Feed
	XML          string
	PublishedURL string
}

// Session is the state of one editing interaction. It is created
// empty, populated wholesale by a successful load, and discarded when
// the program exits; it is never persisted.
type Session struct {
	Title       string
	Description string
	FilterTerm  string

	image      string
	collection *Collection
	stage      Stage
	preview    *Preview
}

func New() *Session {
	return &Session{stage: StageEmpty}
}

func (s *Session) Stage() Stage            { return s.stage }
func (s *Session) Image() string           { return s.image }
func (s *Session) Collection() *Collection { return s.collection }

// Preview returns the rendered artifact, or nil outside of previewing.
func (s *Session) Preview() *Preview {
	if s.stage != StagePreviewing {
		return nil
	}
	return s.preview
}

// Load replaces the entire session with the result of a successful
// feed load. The caller must not call this on failure; a failed load
// leaves the previous session exactly as it was.
func (s *Session) Load(feed feedapi.Feed) {
	s.Title = feed.Title
	s.Description = feed.Description
	s.image = feed.Image
	s.FilterTerm = ""
	s.collection = NewCollection(feed.Episodes)
	s.preview = nil
	s.stage = StageEditing
}

// Visible is the filtered view under the session's current term.
func (s *Session) Visible() []Episode {
	if s.collection == nil {
		return nil
	}
	return Visible(s.collection, s.FilterTerm)
}

// SelectVisible includes exactly the episodes the current filter shows.
func (s *Session) SelectVisible() {
	if s.collection == nil {
		return
	}
	s.collection.SelectVisible(VisibleIDs(s.collection, s.FilterTerm))
}

// RenderPayload assembles the request sent on generate: the edited
// feed metadata plus the included episodes, membership from the skip
// flags and order from the current ordering. The synthetic episode IDs
// ride along; the backend ignores them.
func (s *Session) RenderPayload() feedapi.Feed {
	selected := s.collection.Selected()
	episodes := make([]feedapi.Episode, len(selected))
	for i, ep := range selected {
		episodes[i] = feedapi.Episode{
			ID:           ep.ID,
			Title:        ep.Title,
			Published:    ep.Published,
			Description:  ep.Description,
			Image:        ep.Image,
			Link:         ep.Link,
			EnclosureURL: ep.EnclosureURL,
		}
	}
	return feedapi.Feed{
		Title:       s.Title,
		Description: s.Description,
		Image:       s.image,
		Episodes:    episodes,
	}
}

// AcceptRender stores a successful render result and moves to
// previewing. A response that arrives for a session that was never
// loaded is dropped.
func (s *Session) AcceptRender(feed feedapi.Feed, xml string) {
	if s.stage == StageEmpty {
		return
	}
	s.preview = &Preview{Feed: feed, XML: xml}
	s.stage = StagePreviewing
}

// ReturnToEdit discards the rendered artifact and resumes editing.
// Inclusion flags, ordering and the edited metadata all stay put.
func (s *Session) ReturnToEdit() {
	if s.stage != StagePreviewing {
		return
	}
	s.preview = nil
	s.stage = StageEditing
}

// RecordUpload notes the published URL on the current preview. The
// preview (and its XML) stays around so a retry or a re-upload needs
// no regeneration.
func (s *Session) RecordUpload(url string) {
	if s.preview == nil {
		return
	}
	s.preview.PublishedURL = url
}
