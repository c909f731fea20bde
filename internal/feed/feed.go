// Package feed downloads the raw ISS ephemeris document.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/athyk213/ISS-Tracker/internal/metrics"
)

// ErrFetch is returned when the ephemeris cannot be downloaded.
var ErrFetch = errors.New("failed to download ISS data")

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher retrieves the ephemeris from a fixed URL. No retries are attempted.
type Fetcher struct {
	client  HTTPClient
	url     string
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewFetcher creates a Fetcher using an http.Client with the given timeout.
func NewFetcher(url string, timeout time.Duration, log *slog.Logger, m *metrics.Metrics) *Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: timeout}, url, log, m)
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client.
func NewFetcherWithClient(client HTTPClient, url string, log *slog.Logger, m *metrics.Metrics) *Fetcher {
	return &Fetcher{client: client, url: url, log: log, metrics: m}
}

// Fetch downloads the ephemeris document. Any transport failure or
// non-200 status is reported as ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	f.log.InfoContext(ctx, "Downloading ISS data...", "url", f.url)

	start := time.Now()
	raw, err := f.fetch(ctx)
	duration := time.Since(start).Seconds()

	if err != nil {
		f.metrics.FeedFetchSeconds.WithLabelValues(metrics.OutcomeError).Observe(duration)
		f.metrics.FeedFetchErrors.Inc()
		f.log.ErrorContext(ctx, "Failed to download ISS data", "error", err)

		return nil, err
	}

	f.metrics.FeedFetchSeconds.WithLabelValues(metrics.OutcomeSuccess).Observe(duration)
	f.log.DebugContext(ctx, "Downloaded ISS data", "bytes", len(raw), "duration", duration)

	return raw, nil
}

func (f *Fetcher) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned status %d", ErrFetch, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrFetch, err)
	}

	return raw, nil
}
