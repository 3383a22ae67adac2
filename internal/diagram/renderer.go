package diagram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable marks a remote render failure. Callers treat it as a
// signal to fall back to the diagram source text, never as a build error.
var ErrUnavailable = errors.New("diagram: render service unavailable")

// DefaultServer is the public PlantUML endpoint used when the project
// config does not name its own.
const DefaultServer = "https://www.plantuml.com/plantuml"

// DefaultTimeout bounds the single render attempt per diagram. There are
// no retries; documentation generation must not hang the batch.
const DefaultTimeout = 10 * time.Second

// Renderer obtains an image reference for diagram text, or fails with an
// error wrapping ErrUnavailable. The remote implementation below is the
// production path; tests substitute stubs.
type Renderer interface {
	Render(ctx context.Context, text string) (string, error)
}

// HTTPRenderer asks a PlantUML server for the diagram image. The request
// is stateless: one GET with the encoded diagram in the path.
type HTTPRenderer struct {
	server  string
	client  *http.Client
	timeout time.Duration
}

// Option customizes renderer construction.
type Option func(*HTTPRenderer)

// WithClient overrides the HTTP client, letting tests point the renderer
// at a local server or a failing transport.
func WithClient(client *http.Client) Option {
	return func(r *HTTPRenderer) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTimeout overrides the per-diagram attempt bound.
func WithTimeout(d time.Duration) Option {
	return func(r *HTTPRenderer) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewHTTPRenderer prepares a renderer for the given server base URL.
func NewHTTPRenderer(server string, opts ...Option) *HTTPRenderer {
	if strings.TrimSpace(server) == "" {
		server = DefaultServer
	}
	r := &HTTPRenderer{
		server:  strings.TrimRight(server, "/"),
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// ImageURL returns the request URL for the given diagram text without
// contacting the server.
func (r *HTTPRenderer) ImageURL(text string) (string, error) {
	token, err := Encode(text)
	if err != nil {
		return "", err
	}
	return r.server + "/png/" + token, nil
}

// Render performs the single bounded attempt. Any transport error,
// timeout or non-success status yields ErrUnavailable.
func (r *HTTPRenderer) Render(ctx context.Context, text string) (string, error) {
	url, err := r.ImageURL(text)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("diagram: build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	// The body is the image itself; the site embeds the URL, so the bytes
	// are drained only to reuse the connection.
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: server returned %s", ErrUnavailable, resp.Status)
	}
	return url, nil
}

// Offline returns a renderer that fails every render without touching the
// network, forcing the fallback path.
func Offline() Renderer {
	return offlineRenderer{}
}

type offlineRenderer struct{}

func (offlineRenderer) Render(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: offline mode", ErrUnavailable)
}
