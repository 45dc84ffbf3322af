// Package feedapi is the typed client for the feed editor backend:
// loading a source feed, rendering the curated feed, and publishing
// the rendered document. It translates payloads to the wire format and
// surfaces backend failures; it has no editing logic of its own.
package feedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Episode is the wire shape shared by load responses and render
// requests. ID is synthetic, assigned by the session; the backend
// ignores it.
type Episode struct {
	ID           int    `json:"id,omitempty"`
	Title        string `json:"title"`
	Published    string `json:"published,omitempty"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	Link         string `json:"link,omitempty"`
	EnclosureURL string `json:"enclosure_url,omitempty"`
}

// Feed is both the load response body and the render request body.
type Feed struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image,omitempty"`
	Episodes    []Episode `json:"episodes"`
}

// RenderResult carries the backend's echo of the rendered feed plus
// the serialized document.
type RenderResult struct {
	Feed Feed   `json:"feed"`
	XML  string `json:"xml"`
}

// Op names the backend operation an error came from, so callers can
// show the right fallback message.
type Op string

const (
	OpLoad   Op = "load"
	OpRender Op = "render"
	OpUpload Op = "upload"
)

// APIError is a non-200 backend response. Message is the backend's
// error field when it sent one.
type APIError struct {
	Op      Op
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Op {
	case OpLoad:
		return fmt.Sprintf("failed to load feed (status %d)", e.Status)
	case OpRender:
		return fmt.Sprintf("failed to generate feed (status %d)", e.Status)
	case OpUpload:
		return fmt.Sprintf("upload failed (status %d)", e.Status)
	default:
		return fmt.Sprintf("request failed (status %d)", e.Status)
	}
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// LoadFromURL asks the backend to fetch and parse a feed by URL.
func (c *Client) LoadFromURL(ctx context.Context, feedURL string) (Feed, error) {
	body, err := json.Marshal(map[string]string{"url": feedURL})
	if err != nil {
		return Feed{}, fmt.Errorf("encode load request: %w", err)
	}

	req, err := c.newRequest(ctx, "/load_feed", bytes.NewReader(body), "application/json")
	if err != nil {
		return Feed{}, err
	}
	return c.doLoad(req)
}

// LoadFromFile submits raw feed bytes as a multipart upload under the
// field name the backend expects.
func (c *Client) LoadFromFile(ctx context.Context, filename string, contents []byte) (Feed, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Feed{}, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(contents); err != nil {
		return Feed{}, fmt.Errorf("write multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Feed{}, fmt.Errorf("finish multipart form: %w", err)
	}

	req, err := c.newRequest(ctx, "/load_feed", &buf, mw.FormDataContentType())
	if err != nil {
		return Feed{}, err
	}
	return c.doLoad(req)
}

func (c *Client) doLoad(req *http.Request) (Feed, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return Feed{}, fmt.Errorf("load feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Feed{}, decodeAPIError(OpLoad, resp)
	}

	var feed Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return Feed{}, fmt.Errorf("decode load response: %w", err)
	}
	return feed, nil
}

// Render submits the curated feed and returns the rendered summary
// plus the serialized document.
func (c *Client) Render(ctx context.Context, feed Feed) (RenderResult, error) {
	body, err := json.Marshal(feed)
	if err != nil {
		return RenderResult{}, fmt.Errorf("encode render request: %w", err)
	}

	req, err := c.newRequest(ctx, "/render_feed", bytes.NewReader(body), "application/json")
	if err != nil {
		return RenderResult{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return RenderResult{}, fmt.Errorf("render feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RenderResult{}, decodeAPIError(OpRender, resp)
	}

	var result RenderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return RenderResult{}, fmt.Errorf("decode render response: %w", err)
	}
	return result, nil
}

// Upload publishes a rendered document and returns its public URL.
func (c *Client) Upload(ctx context.Context, xml string) (string, error) {
	body, err := json.Marshal(map[string]string{"xml": xml})
	if err != nil {
		return "", fmt.Errorf("encode upload request: %w", err)
	}

	req, err := c.newRequest(ctx, "/upload_feed", bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeAPIError(OpUpload, resp)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return result.URL, nil
}

func (c *Client) newRequest(ctx context.Context, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func decodeAPIError(op Op, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(raw, &body)
	return &APIError{Op: op, Status: resp.StatusCode, Message: strings.TrimSpace(body.Error)}
}
