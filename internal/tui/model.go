// Package tui is the terminal front end of feedcut. The bubbletea
// Model hosts the editing workflow: every session mutation happens
// synchronously inside Update, network calls run as commands, and their
// results come back as messages. In-flight requests are never
// cancelled; a late render response previews the payload it was sent.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"feedcut/internal/feedapi"
	"feedcut/internal/session"
	"feedcut/internal/storage"
	"feedcut/internal/tui/platform"
	tuistate "feedcut/internal/tui/state"
	tuitheme "feedcut/internal/tui/theme"
)

// Collapse thresholds over the raw description length, per call site.
const (
	listCollapseThreshold = 240
	feedCollapseThreshold = 260
)

const recentSourceLimit = 8

type Service interface {
	LoadFromURL(ctx context.Context, feedURL string) (feedapi.Feed, error)
	LoadFromFile(ctx context.Context, filename string, contents []byte) (feedapi.Feed, error)
	Render(ctx context.Context, feed feedapi.Feed) (feedapi.RenderResult, error)
	Upload(ctx context.Context, xml, feedTitle string) (string, error)
	RecentSources(ctx context.Context, limit int) ([]storage.Source, error)
	RecentPublishes(ctx context.Context, limit int) ([]storage.Publish, error)
}

type Preferences struct {
	Compact        bool
	ConfirmPublish bool
}

type loadSuccessMsg struct {
	feed   feedapi.Feed
	source string
}

type loadErrorMsg struct {
	err error
}

type renderSuccessMsg struct {
	result feedapi.RenderResult
}

type renderErrorMsg struct {
	err error
}

type uploadSuccessMsg struct {
	url    string
	copied bool
}

type uploadErrorMsg struct {
	err error
}

type recentSourcesMsg struct {
	sources []storage.Source
}

type recentPublishesMsg struct {
	publishes []storage.Publish
}

type clearStatusMsg struct {
	id int
}

type preferenceSaveErrorMsg struct {
	err error
}

type inputField int

const (
	inputNone inputField = iota
	inputURL
	inputFile
	inputFilter
	inputTitle
	inputDescription
)

type Model struct {
	service Service
	sess    *session.Session
	theme   tuitheme.Theme

	recent       []storage.Source
	recentCursor int
	publishes    []storage.Publish

	input       inputField
	inputBuffer string

	cursor   int
	expanded map[int]bool

	previewTop        int
	showXML           bool
	previewExpanded   bool
	previewEpExpanded bool

	compact        bool
	confirmPublish bool
	pendingPublish bool

	showHelp bool
	width    int
	height   int
	loading  bool
	status   string
	statusID int
	err      error

	copyURLFn         func(string) error
	readFileFn        func(string) ([]byte, error)
	savePreferencesFn func(Preferences) error
}

func NewModel(service Service, recent []storage.Source, publishes []storage.Publish) Model {
	return Model{
		service:    service,
		sess:       session.New(),
		theme:      tuitheme.Default(),
		recent:     recent,
		publishes:  publishes,
		expanded:   make(map[int]bool),
		copyURLFn:  platform.CopyToClipboard,
		readFileFn: os.ReadFile,
	}
}

func (m *Model) ApplyPreferences(p Preferences) {
	m.compact = p.Compact
	m.confirmPublish = p.ConfirmPublish
}

func (m *Model) SetPreferencesSaver(fn func(Preferences) error) {
	m.savePreferencesFn = fn
}

func (m Model) preferences() Preferences {
	return Preferences{Compact: m.compact, ConfirmPublish: m.confirmPublish}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.showHelp = false
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}
		if m.input != inputNone {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		}
		switch m.sess.Stage() {
		case session.StageEmpty:
			return m.updateEmptyKeys(msg)
		case session.StageEditing:
			return m.updateEditingKeys(msg)
		case session.StagePreviewing:
			return m.updatePreviewingKeys(msg)
		}
		return m, nil

	case loadSuccessMsg:
		m.loading = false
		m.err = nil
		m.sess.Load(msg.feed)
		m.cursor = 0
		m.expanded = make(map[int]bool)
		m.previewTop = 0
		m.showXML = false
		m.status = fmt.Sprintf("Feed loaded: %d episodes", m.sess.Collection().Len())
		if m.service != nil && msg.source != "" {
			return m, recentSourcesCmd(m.service)
		}
		return m, nil
	case loadErrorMsg:
		// The previous session, if any, is untouched.
		m.loading = false
		m.status = ""
		m.err = msg.err
		return m, nil

	case renderSuccessMsg:
		m.loading = false
		m.err = nil
		m.sess.AcceptRender(msg.result.Feed, msg.result.XML)
		m.previewTop = 0
		m.showXML = false
		m.previewExpanded = false
		m.previewEpExpanded = false
		m.pendingPublish = false
		m.status = "Feed generated"
		return m, nil
	case renderErrorMsg:
		m.loading = false
		m.status = ""
		m.err = msg.err
		return m, nil

	case uploadSuccessMsg:
		m.loading = false
		m.err = nil
		m.pendingPublish = false
		m.sess.RecordUpload(msg.url)
		if msg.copied {
			m.status = "Feed uploaded, URL copied to clipboard"
		} else {
			m.status = "Feed uploaded: " + msg.url
		}
		return m, recentPublishesCmd(m.service)
	case uploadErrorMsg:
		// The rendered document is retained; upload can be retried.
		m.loading = false
		m.status = ""
		m.pendingPublish = false
		m.err = msg.err
		return m, nil

	case recentSourcesMsg:
		m.recent = msg.sources
		m.recentCursor = tuistate.ClampCursor(m.recentCursor, len(m.recent))
		return m, nil

	case recentPublishesMsg:
		m.publishes = msg.publishes
		return m, nil

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil
	case preferenceSaveErrorMsg:
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.input = inputNone
		m.inputBuffer = ""
		return m, nil
	case "enter":
		return m.commitInput()
	case "backspace":
		if len(m.inputBuffer) > 0 {
			runes := []rune(m.inputBuffer)
			m.inputBuffer = string(runes[:len(runes)-1])
		}
		return m, nil
	}
	switch msg.Type {
	case tea.KeyRunes:
		m.inputBuffer += string(msg.Runes)
	case tea.KeySpace:
		m.inputBuffer += " "
	}
	return m, nil
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	field := m.input
	buffer := m.inputBuffer
	m.input = inputNone
	m.inputBuffer = ""

	switch field {
	case inputURL:
		validURL, err := platform.ValidateFeedURL(buffer)
		if err != nil {
			m.err = nil
			m.status = err.Error()
			m.statusID++
			return m, clearStatusCmd(m.statusID, 4*time.Second)
		}
		m.loading = true
		m.status = "Loading feed..."
		m.err = nil
		return m, loadURLCmd(m.service, validURL)
	case inputFile:
		path := strings.TrimSpace(buffer)
		if path == "" {
			m.err = nil
			m.status = "No file path provided"
			m.statusID++
			return m, clearStatusCmd(m.statusID, 4*time.Second)
		}
		m.loading = true
		m.status = "Loading file..."
		m.err = nil
		return m, loadFileCmd(m.service, path, m.readFileFn)
	case inputFilter:
		m.sess.FilterTerm = buffer
		m.cursor = 0
		return m, nil
	case inputTitle:
		m.sess.Title = buffer
		return m, nil
	case inputDescription:
		m.sess.Description = buffer
		return m, nil
	}
	return m, nil
}

func (m Model) updateEmptyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "u":
		m.input = inputURL
		m.inputBuffer = ""
		return m, nil
	case "f":
		m.input = inputFile
		m.inputBuffer = ""
		return m, nil
	case "up", "k":
		m.recentCursor = tuistate.ClampCursor(m.recentCursor-1, len(m.recent))
		return m, nil
	case "down", "j":
		m.recentCursor = tuistate.ClampCursor(m.recentCursor+1, len(m.recent))
		return m, nil
	case "enter":
		if len(m.recent) == 0 {
			return m, nil
		}
		m.loading = true
		m.status = "Loading feed..."
		m.err = nil
		return m, loadURLCmd(m.service, m.recent[m.recentCursor].URL)
	}
	return m, nil
}

func (m Model) updateEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.sess.Visible()
	m.cursor = tuistate.ClampCursor(m.cursor, len(visible))

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.cursor = tuistate.ClampCursor(m.cursor-1, len(visible))
		return m, nil
	case "down", "j":
		m.cursor = tuistate.ClampCursor(m.cursor+1, len(visible))
		return m, nil
	case "g":
		m.cursor = 0
		return m, nil
	case "G":
		m.cursor = tuistate.ClampCursor(len(visible)-1, len(visible))
		return m, nil
	case "pgup", "ctrl+b":
		m.cursor = tuistate.ClampCursor(m.cursor-tuistate.PageStep(m.height, m.status != ""), len(visible))
		return m, nil
	case "pgdown", "ctrl+f":
		m.cursor = tuistate.ClampCursor(m.cursor+tuistate.PageStep(m.height, m.status != ""), len(visible))
		return m, nil
	case " ":
		if len(visible) == 0 {
			return m, nil
		}
		ep := visible[m.cursor]
		m.sess.Collection().SetIncluded(ep.ID, ep.Skip)
		return m, nil
	case "o":
		if len(visible) == 0 {
			return m, nil
		}
		id := visible[m.cursor].ID
		m.expanded[id] = !m.expanded[id]
		return m, nil
	case "r":
		m.sess.Collection().Reverse()
		m.cursor = 0
		return m.transientStatus("Episode order reversed")
	case "R":
		m.sess.Collection().RestoreOrder()
		m.cursor = 0
		return m.transientStatus("Original order restored")
	case "a":
		m.sess.Collection().SelectAll()
		return m.transientStatus("All episodes selected")
	case "x":
		m.sess.Collection().ClearSelection()
		return m.transientStatus("Selection cleared")
	case "v":
		m.sess.SelectVisible()
		return m.transientStatus(fmt.Sprintf("Selected %d filtered episodes", len(visible)))
	case "/":
		m.input = inputFilter
		m.inputBuffer = m.sess.FilterTerm
		return m, nil
	case "ctrl+l":
		m.sess.FilterTerm = ""
		m.cursor = 0
		return m.transientStatus("Filter cleared")
	case "t":
		m.input = inputTitle
		m.inputBuffer = m.sess.Title
		return m, nil
	case "d":
		m.input = inputDescription
		m.inputBuffer = m.sess.Description
		return m, nil
	case "u":
		m.input = inputURL
		m.inputBuffer = ""
		return m, nil
	case "f":
		m.input = inputFile
		m.inputBuffer = ""
		return m, nil
	case "c":
		m.compact = !m.compact
		m.err = nil
		if m.compact {
			m.status = "Compact mode: on"
		} else {
			m.status = "Compact mode: off"
		}
		return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
	case "p":
		m.confirmPublish = !m.confirmPublish
		m.err = nil
		if m.confirmPublish {
			m.status = "Confirm before publish: on"
		} else {
			m.status = "Confirm before publish: off"
		}
		return m, persistPreferencesCmd(m.savePreferencesFn, m.preferences())
	case "enter":
		// Generating with zero selected episodes is allowed; the
		// backend renders an empty feed.
		m.loading = true
		m.status = "Generating feed..."
		m.err = nil
		return m, renderCmd(m.service, m.sess.RenderPayload())
	}
	return m, nil
}

func (m Model) updatePreviewingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	preview := m.sess.Preview()
	if preview == nil {
		return m, nil
	}
	if msg.String() != "u" {
		m.pendingPublish = false
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.previewTop = tuistate.ScrollTop(m.previewTop-1, m.previewLineCount(*preview), m.bodyHeight())
		return m, nil
	case "down", "j":
		m.previewTop = tuistate.ScrollTop(m.previewTop+1, m.previewLineCount(*preview), m.bodyHeight())
		return m, nil
	case "pgup", "ctrl+b":
		m.previewTop = tuistate.ScrollTop(m.previewTop-tuistate.PageStep(m.height, m.status != ""), m.previewLineCount(*preview), m.bodyHeight())
		return m, nil
	case "pgdown", "ctrl+f":
		m.previewTop = tuistate.ScrollTop(m.previewTop+tuistate.PageStep(m.height, m.status != ""), m.previewLineCount(*preview), m.bodyHeight())
		return m, nil
	case "g":
		m.previewTop = 0
		return m, nil
	case "x":
		m.showXML = !m.showXML
		m.previewTop = 0
		return m, nil
	case "o":
		m.previewExpanded = !m.previewExpanded
		return m, nil
	case "e":
		m.previewEpExpanded = !m.previewEpExpanded
		return m, nil
	case "u":
		if m.confirmPublish && !m.pendingPublish {
			m.pendingPublish = true
			m.err = nil
			m.status = "Press u again to publish"
			return m, nil
		}
		m.pendingPublish = false
		m.loading = true
		m.status = "Uploading feed..."
		m.err = nil
		return m, uploadCmd(m.service, preview.XML, preview.Feed.Title, m.copyURLFn)
	case "y":
		if preview.PublishedURL == "" {
			return m, nil
		}
		if m.copyURLFn != nil && m.copyURLFn(preview.PublishedURL) == nil {
			return m.transientStatus("Published URL copied to clipboard")
		}
		return m.transientStatus("Could not copy URL to clipboard")
	case "esc", "b", "backspace":
		m.sess.ReturnToEdit()
		m.showXML = false
		m.previewTop = 0
		m.status = ""
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m Model) transientStatus(text string) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = text
	m.statusID++
	return m, clearStatusCmd(m.statusID, 4*time.Second)
}

func loadURLCmd(service Service, feedURL string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		feed, err := service.LoadFromURL(ctx, feedURL)
		if err != nil {
			return loadErrorMsg{err: err}
		}
		return loadSuccessMsg{feed: feed, source: feedURL}
	}
}

func loadFileCmd(service Service, path string, readFn func(string) ([]byte, error)) tea.Cmd {
	return func() tea.Msg {
		contents, err := readFn(path)
		if err != nil {
			return loadErrorMsg{err: fmt.Errorf("read feed file: %w", err)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		feed, err := service.LoadFromFile(ctx, filepath.Base(path), contents)
		if err != nil {
			return loadErrorMsg{err: err}
		}
		return loadSuccessMsg{feed: feed}
	}
}

func renderCmd(service Service, payload feedapi.Feed) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		result, err := service.Render(ctx, payload)
		if err != nil {
			return renderErrorMsg{err: err}
		}
		return renderSuccessMsg{result: result}
	}
}

func uploadCmd(service Service, xml, feedTitle string, copyFn func(string) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		url, err := service.Upload(ctx, xml, feedTitle)
		if err != nil {
			return uploadErrorMsg{err: err}
		}
		copied := copyFn != nil && copyFn(url) == nil
		return uploadSuccessMsg{url: url, copied: copied}
	}
}

func recentSourcesCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		sources, err := service.RecentSources(ctx, recentSourceLimit)
		if err != nil {
			// History is convenience only; a broken local store must
			// not surface as a session error.
			return recentSourcesMsg{}
		}
		return recentSourcesMsg{sources: sources}
	}
}

func recentPublishesCmd(service Service) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		publishes, err := service.RecentPublishes(ctx, recentSourceLimit)
		if err != nil {
			return recentPublishesMsg{}
		}
		return recentPublishesMsg{publishes: publishes}
	}
}

func clearStatusCmd(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func persistPreferencesCmd(saveFn func(Preferences) error, prefs Preferences) tea.Cmd {
	if saveFn == nil {
		return nil
	}
	return func() tea.Msg {
		if err := saveFn(prefs); err != nil {
			return preferenceSaveErrorMsg{err: fmt.Errorf("save preferences: %w", err)}
		}
		return nil
	}
}
