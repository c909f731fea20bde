//go:build live

package feed_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/athyk213/ISS-Tracker/internal/config"
	"github.com/athyk213/ISS-Tracker/internal/feed"
	"github.com/athyk213/ISS-Tracker/internal/metrics"
	"github.com/athyk213/ISS-Tracker/internal/oem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_LiveFeed(t *testing.T) {
	fetcher := feed.NewFetcher(config.DefaultFeedURL, 30*time.Second, slog.Default(),
		metrics.NewMetrics(prometheus.NewRegistry()))

	raw, err := fetcher.Fetch(t.Context())
	require.NoError(t, err)

	vectors, err := oem.ParseStateVectors(raw)
	require.NoError(t, err)
	assert.NotEmpty(t, vectors)
}
