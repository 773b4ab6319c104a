// Package github implements a read-only client for GitHub organizations:
// the organization payload, its public repositories and their licenses.
package github

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mesh-intelligence/orgscout/pkg/nested"
	"github.com/mesh-intelligence/orgscout/pkg/orgscout"
)

// JSONGetter fetches the JSON document at a URL.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string) (nested.Value, error)
}

const (
	defaultTimeout = 30 * time.Second
	acceptHeader   = "application/vnd.github+json"
	apiVersion     = "2022-11-28"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 32 << 20
)

// HTTPGetter is a JSONGetter backed by net/http.
type HTTPGetter struct {
	client    *http.Client
	token     string
	userAgent string
	logger    *slog.Logger
}

// HTTPOption configures an HTTPGetter.
type HTTPOption func(*HTTPGetter)

// WithHTTPClient replaces the default client (30s timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(g *HTTPGetter) { g.client = c }
}

// WithToken sends "Authorization: Bearer <token>" on every request. An empty
// token sends no Authorization header.
func WithToken(token string) HTTPOption {
	return func(g *HTTPGetter) { g.token = token }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(g *HTTPGetter) { g.userAgent = ua }
}

// WithHTTPLogger sets the logger for request diagnostics.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(g *HTTPGetter) { g.logger = l }
}

// NewHTTPGetter creates an HTTPGetter.
func NewHTTPGetter(opts ...HTTPOption) *HTTPGetter {
	g := &HTTPGetter{
		client:    &http.Client{Timeout: defaultTimeout},
		userAgent: "orgscout/" + orgscout.Version,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GetJSON issues a GET to url and decodes the body. A non-2xx status returns
// a *StatusError.
func (g *HTTPGetter) GetJSON(ctx context.Context, url string) (nested.Value, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nested.Value{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", g.userAgent)
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return nested.Value{}, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nested.Value{}, fmt.Errorf("reading %s: %w", url, err)
	}
	g.logger.Debug("http get",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
		"elapsed", time.Since(start),
		"rate_remaining", resp.Header.Get("X-RateLimit-Remaining"),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nested.Value{}, &StatusError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body),
		}
	}

	v, err := nested.Decode(body)
	if err != nil {
		return nested.Value{}, fmt.Errorf("decoding %s: %w", url, err)
	}
	return v, nil
}

// errorMessage extracts the "message" field of a GitHub error body.
func errorMessage(body []byte) string {
	v, err := nested.Decode(body)
	if err != nil {
		return ""
	}
	m, ok := v.AsMap()
	if !ok {
		return ""
	}
	msg, err := nested.AccessString(m, "message")
	if err != nil {
		return ""
	}
	return msg
}
