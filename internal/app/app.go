package app

import (
	"context"
	"fmt"
	"time"

	"feedcut/internal/feedapi"
	"feedcut/internal/storage"
)

type FeedClient interface {
	LoadFromURL(ctx context.Context, feedURL string) (feedapi.Feed, error)
	LoadFromFile(ctx context.Context, filename string, contents []byte) (feedapi.Feed, error)
	Render(ctx context.Context, feed feedapi.Feed) (feedapi.RenderResult, error)
	Upload(ctx context.Context, xml string) (string, error)
}

type Repository interface {
	SaveSource(ctx context.Context, src storage.Source) error
	ListSources(ctx context.Context, limit int) ([]storage.Source, error)
	SavePublish(ctx context.Context, pub storage.Publish) error
	ListPublishes(ctx context.Context, limit int) ([]storage.Publish, error)
	SavePreference(ctx context.Context, name, value string) error
	LoadPreferences(ctx context.Context) (map[string]string, error)
}

// UIPreferences are the persisted knobs of the TUI.
type UIPreferences struct {
	Compact        bool
	ConfirmPublish bool
}

const DefaultRecentLimit = 8

// Service sits between the TUI and the backend client, recording
// history as a side effect of successful calls. History failures never
// fail the call that triggered them; the session must not suffer for a
// broken local database.
type Service struct {
	client FeedClient
	repo   Repository
	nowFn  func() time.Time
}

func NewService(client FeedClient, repo Repository) *Service {
	return &Service{client: client, repo: repo, nowFn: time.Now}
}

func (s *Service) LoadFromURL(ctx context.Context, feedURL string) (feedapi.Feed, error) {
	feed, err := s.client.LoadFromURL(ctx, feedURL)
	if err != nil {
		return feedapi.Feed{}, fmt.Errorf("load feed from url: %w", err)
	}
	_ = s.repo.SaveSource(ctx, storage.Source{
		URL:      feedURL,
		Title:    feed.Title,
		LoadedAt: s.nowFn(),
	})
	return feed, nil
}

func (s *Service) LoadFromFile(ctx context.Context, filename string, contents []byte) (feedapi.Feed, error) {
	feed, err := s.client.LoadFromFile(ctx, filename, contents)
	if err != nil {
		return feedapi.Feed{}, fmt.Errorf("load feed from file: %w", err)
	}
	return feed, nil
}

func (s *Service) Render(ctx context.Context, feed feedapi.Feed) (feedapi.RenderResult, error) {
	result, err := s.client.Render(ctx, feed)
	if err != nil {
		return feedapi.RenderResult{}, fmt.Errorf("render feed: %w", err)
	}
	return result, nil
}

func (s *Service) Upload(ctx context.Context, xml, feedTitle string) (string, error) {
	url, err := s.client.Upload(ctx, xml)
	if err != nil {
		return "", fmt.Errorf("upload feed: %w", err)
	}
	_ = s.repo.SavePublish(ctx, storage.Publish{
		URL:         url,
		FeedTitle:   feedTitle,
		PublishedAt: s.nowFn(),
	})
	return url, nil
}

func (s *Service) RecentSources(ctx context.Context, limit int) ([]storage.Source, error) {
	sources, err := s.repo.ListSources(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent sources: %w", err)
	}
	return sources, nil
}

func (s *Service) RecentPublishes(ctx context.Context, limit int) ([]storage.Publish, error) {
	publishes, err := s.repo.ListPublishes(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list publish history: %w", err)
	}
	return publishes, nil
}

func (s *Service) LoadUIPreferences(ctx context.Context) (UIPreferences, error) {
	raw, err := s.repo.LoadPreferences(ctx)
	if err != nil {
		return UIPreferences{}, fmt.Errorf("load preferences: %w", err)
	}
	return UIPreferences{
		Compact:        raw["compact"] == "true",
		ConfirmPublish: raw["confirm_publish"] == "true",
	}, nil
}

func (s *Service) SaveUIPreferences(ctx context.Context, prefs UIPreferences) error {
	values := map[string]string{
		"compact":         boolValue(prefs.Compact),
		"confirm_publish": boolValue(prefs.ConfirmPublish),
	}
	for name, value := range values {
		if err := s.repo.SavePreference(ctx, name, value); err != nil {
			return fmt.Errorf("save preference %s: %w", name, err)
		}
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
