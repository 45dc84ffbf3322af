// Package storage is the local SQLite store for cross-session
// conveniences: recently loaded sources, publish history, and UI
// preferences. Editing-session state itself is never written here.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Source is one remembered feed load.
type Source struct {
	URL      string
	Title    string
	LoadedAt time.Time
}

// Publish is one successful upload of a rendered feed.
type Publish struct {
	URL         string
	FeedTitle   string
	PublishedAt time.Time
}

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS sources (
  url TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  loaded_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS publishes (
  url TEXT PRIMARY KEY,
  feed_title TEXT NOT NULL,
  published_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS preferences (
  name TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable verifies the database accepts writes before the TUI
// takes over the terminal, so a bad path fails loudly at startup.
func (r *Repository) CheckWritable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (name, value) VALUES ('write_check', 'ok')
ON CONFLICT(name) DO UPDATE SET value='ok'
`)
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

func (r *Repository) SaveSource(ctx context.Context, src Source) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sources (url, title, loaded_at) VALUES (?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
  title=excluded.title,
  loaded_at=excluded.loaded_at
`, src.URL, src.Title, src.LoadedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save source %s: %w", src.URL, err)
	}
	return nil
}

func (r *Repository) ListSources(ctx context.Context, limit int) ([]Source, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT url, title, loaded_at
FROM sources
ORDER BY loaded_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	sources := make([]Source, 0, limit)
	for rows.Next() {
		var src Source
		var loadedAt string
		if err := rows.Scan(&src.URL, &src.Title, &loadedAt); err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		src.LoadedAt, err = time.Parse(time.RFC3339Nano, loadedAt)
		if err != nil {
			return nil, fmt.Errorf("parse source loaded_at %q: %w", loadedAt, err)
		}
		sources = append(sources, src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return sources, nil
}

func (r *Repository) SavePublish(ctx context.Context, pub Publish) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO publishes (url, feed_title, published_at) VALUES (?, ?, ?)
ON CONFLICT(url) DO UPDATE SET
  feed_title=excluded.feed_title,
  published_at=excluded.published_at
`, pub.URL, pub.FeedTitle, pub.PublishedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save publish %s: %w", pub.URL, err)
	}
	return nil
}

func (r *Repository) ListPublishes(ctx context.Context, limit int) ([]Publish, error) {
	if limit < 1 {
		limit = 10
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT url, feed_title, published_at
FROM publishes
ORDER BY published_at DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, fmt.Errorf("query publishes: %w", err)
	}
	defer rows.Close()

	publishes := make([]Publish, 0, limit)
	for rows.Next() {
		var pub Publish
		var publishedAt string
		if err := rows.Scan(&pub.URL, &pub.FeedTitle, &publishedAt); err != nil {
			return nil, fmt.Errorf("scan publish: %w", err)
		}
		pub.PublishedAt, err = time.Parse(time.RFC3339Nano, publishedAt)
		if err != nil {
			return nil, fmt.Errorf("parse publish published_at %q: %w", publishedAt, err)
		}
		publishes = append(publishes, pub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return publishes, nil
}

func (r *Repository) SavePreference(ctx context.Context, name, value string) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO preferences (name, value) VALUES (?, ?)
ON CONFLICT(name) DO UPDATE SET value=excluded.value
`, name, value)
	if err != nil {
		return fmt.Errorf("save preference %s: %w", name, err)
	}
	return nil
}

// LoadPreferences returns every stored preference as a name/value map.
// A missing name simply isn't in the map.
func (r *Repository) LoadPreferences(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, value FROM preferences`)
	if err != nil {
		return nil, fmt.Errorf("query preferences: %w", err)
	}
	defer rows.Close()

	prefs := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		prefs[name] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return prefs, nil
}
