package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the feed and geocoding collectors.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

type Metrics struct {
	FeedFetchSeconds   *prometheus.HistogramVec
	FeedFetchErrors    prometheus.Counter
	GeocodeRequests    *prometheus.CounterVec
	GeocodeSeconds     *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestSeconds *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FeedFetchSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iss_feed_fetch_duration_seconds",
			Help:    "Duration of ISS ephemeris downloads.",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),
		FeedFetchErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "iss_feed_fetch_errors_total",
			Help: "Total number of failed ISS ephemeris downloads.",
		}),
		GeocodeRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "iss_geocode_requests_total",
			Help: "Total number of reverse geocoding requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		GeocodeSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iss_geocode_request_duration_seconds",
			Help:    "Duration of requests to the reverse geocoding provider.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "iss_http_requests_total",
			Help: "Total number of API requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPRequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iss_http_request_duration_seconds",
			Help:    "Duration of API requests by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}
