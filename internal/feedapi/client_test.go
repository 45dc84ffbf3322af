package feedapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoadFromURL_SendsJSONAndParsesResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/load_feed" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content-type: %s", got)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"url":"https://example.com/feed.xml"`) {
			t.Fatalf("unexpected body: %s", string(body))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"title": "My Podcast",
			"description": "About things",
			"image": "https://example.com/art.png",
			"episodes": [
				{"title": "Ep 1", "published": "Mon, 01 Jan 2026", "description": "<p>Hi</p>", "link": "https://example.com/1", "enclosure_url": "https://example.com/1.mp3"},
				{"title": "Ep 2"}
			]
		}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	feed, err := c.LoadFromURL(context.Background(), "https://example.com/feed.xml")
	if err != nil {
		t.Fatalf("LoadFromURL returned error: %v", err)
	}

	if feed.Title != "My Podcast" {
		t.Fatalf("unexpected title: %s", feed.Title)
	}
	if len(feed.Episodes) != 2 {
		t.Fatalf("expected 2 episodes, got %d", len(feed.Episodes))
	}
	if feed.Episodes[0].EnclosureURL != "https://example.com/1.mp3" {
		t.Fatalf("enclosure not parsed: %+v", feed.Episodes[0])
	}
}

func TestLoadFromFile_SendsMultipart(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not a multipart request: %v", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "feed.xml" {
			t.Fatalf("unexpected filename: %s", header.Filename)
		}
		contents, _ := io.ReadAll(file)
		if string(contents) != "<rss>raw</rss>" {
			t.Fatalf("unexpected file contents: %s", string(contents))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"title": "Uploaded", "description": "", "episodes": []}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	feed, err := c.LoadFromFile(context.Background(), "feed.xml", []byte("<rss>raw</rss>"))
	if err != nil {
		t.Fatalf("LoadFromFile returned error: %v", err)
	}
	if feed.Title != "Uploaded" {
		t.Fatalf("unexpected title: %s", feed.Title)
	}
}

func TestLoadFromURL_BackendErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "No feed URL provided"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.LoadFromURL(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Op != OpLoad || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if err.Error() != "No feed URL provided" {
		t.Fatalf("expected backend message, got %q", err.Error())
	}
}

func TestRender_SendsSelectionInOrder(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render_feed" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var got Feed
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(got.Episodes) != 2 || got.Episodes[0].Title != "C" || got.Episodes[1].Title != "A" {
			t.Fatalf("episode order not preserved: %+v", got.Episodes)
		}
		if got.Episodes[0].ID != 2 {
			t.Fatalf("synthetic id not carried: %+v", got.Episodes[0])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feed": {"title": "My Podcast", "description": "", "episodes": [{"title": "C"}, {"title": "A"}]}, "xml": "<rss version=\"2.0\"/>"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	result, err := c.Render(context.Background(), Feed{
		Title: "My Podcast",
		Episodes: []Episode{
			{ID: 2, Title: "C"},
			{ID: 0, Title: "A"},
		},
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if result.XML == "" {
		t.Fatal("missing rendered document")
	}
	if len(result.Feed.Episodes) != 2 {
		t.Fatalf("unexpected rendered feed: %+v", result.Feed)
	}
}

func TestRender_EmptyEpisodeList(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"episodes":[]`) {
			t.Fatalf("expected explicit empty episode list, got: %s", string(body))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"feed": {"title": "Empty", "description": "", "episodes": []}, "xml": "<rss/>"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	result, err := c.Render(context.Background(), Feed{Title: "Empty", Episodes: []Episode{}})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if len(result.Feed.Episodes) != 0 {
		t.Fatalf("expected empty rendered feed, got %+v", result.Feed)
	}
}

func TestUpload_SendsDocumentAndParsesURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload_feed" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			XML string `json:"xml"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.XML != "<rss/>" {
			t.Fatalf("document not sent: %q", req.XML)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url": "https://bucket.example.com/feeds/abc.xml"}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	url, err := c.Upload(context.Background(), "<rss/>")
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://bucket.example.com/feeds/abc.xml" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestUpload_FallbackMessageWithoutErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	_, err := c.Upload(context.Background(), "<rss/>")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "upload failed (status 500)") {
		t.Fatalf("unexpected fallback message: %v", err)
	}
}
