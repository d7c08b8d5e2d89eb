package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the API server.
type Metrics struct {
	// Weather aggregator metrics.
	ProviderRequests *prometheus.CounterVec // labels: provider={fusion,local,synthetic}, outcome={success,error}
	WeatherCache     *prometheus.CounterVec // labels: result={hit,miss,skip}

	// Forum metrics.
	EngagementActions *prometheus.CounterVec // labels: kind={like,star}, outcome={applied,rejected}
	PostsCreated      prometheus.Counter

	// Feedback metrics.
	FeedbackSubmissions *prometheus.CounterVec // labels: outcome={accepted,rate_limited}
}

// NewMetrics creates and registers all server metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.ProviderRequests,
		m.WeatherCache,
		m.EngagementActions,
		m.PostsCreated,
		m.FeedbackSubmissions,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alertify",
			Name:      "weather_provider_requests_total",
			Help:      "Weather provider fetch attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alertify",
			Name:      "weather_cache_total",
			Help:      "Weather snapshot cache lookups by result.",
		}, []string{"result"}),
		EngagementActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alertify",
			Name:      "engagement_actions_total",
			Help:      "Forum engagement attempts by kind and outcome.",
		}, []string{"kind", "outcome"}),
		PostsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "alertify",
			Name:      "forum_posts_created_total",
			Help:      "Total forum posts created.",
		}),
		FeedbackSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "alertify",
			Name:      "feedback_submissions_total",
			Help:      "Feedback submissions by outcome.",
		}, []string{"outcome"}),
	}
}
