package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure Fetcher implements driven.Fetcher
var _ driven.Fetcher = (*Fetcher)(nil)

const (
	// DefaultTimeout bounds a single page fetch
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent presents as a desktop browser; some sites refuse
	// obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	// DefaultMaxBodyBytes caps how much of a response is read
	DefaultMaxBodyBytes = 20 << 20
)

// ErrBodyTooLarge is returned when a response exceeds the body cap
var ErrBodyTooLarge = errors.New("response body too large")

// Config configures the fetcher
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Fetcher retrieves web pages over HTTP
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
	logger       *slog.Logger
}

// NewFetcher creates a fetcher, filling unset config with defaults
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       cfg.Logger.With("component", "web-fetcher"),
	}
}

// Get fetches url. Non-2xx statuses are errors.
func (f *Fetcher) Get(ctx context.Context, url string) (*driven.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("%w: body from %s exceeds %d bytes", ErrBodyTooLarge, url, f.maxBodyBytes)
	}

	f.logger.Debug("fetched url",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	return &driven.FetchResult{
		URL:         resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
