// Package metrics holds the prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// ResultOK labels an engagement action that changed state.
	ResultOK = "ok"
	// ResultRejected labels an engagement action refused by a business rule.
	ResultRejected = "rejected"
	// ResultError labels an engagement action that failed unexpectedly.
	ResultError = "error"
)

var (
	// TweetsCreatedTotal counts tweets written, by tweet type.
	TweetsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_tweets_created_total",
			Help: "Total number of tweets created",
		},
		[]string{"type"},
	)

	// TweetsDeletedTotal counts tweet rows removed, cascades included.
	TweetsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "twitter_tweets_deleted_total",
			Help: "Total number of tweets deleted including cascaded ones",
		},
	)

	// EngagementActionsTotal counts retweet and like toggles by outcome.
	EngagementActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_engagement_actions_total",
			Help: "Total number of retweet and like actions",
		},
		[]string{"action", "result"},
	)

	// ThrottledRequestsTotal counts writes refused by the throttle.
	ThrottledRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "twitter_throttled_requests_total",
			Help: "Total number of write requests rejected by the throttle",
		},
		[]string{"method"},
	)

	// HTTPRequestDuration tracks handler latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "twitter_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordTweetCreated bumps the creation counter for tweetType.
func RecordTweetCreated(tweetType string) {
	TweetsCreatedTotal.WithLabelValues(tweetType).Inc()
}

// RecordTweetsDeleted adds n to the deletion counter.
func RecordTweetsDeleted(n int64) {
	if n > 0 {
		TweetsDeletedTotal.Add(float64(n))
	}
}

// RecordEngagement counts one engagement action.
func RecordEngagement(action, result string) {
	EngagementActionsTotal.WithLabelValues(action, result).Inc()
}

// RecordThrottled counts one throttled request.
func RecordThrottled(method string) {
	ThrottledRequestsTotal.WithLabelValues(method).Inc()
}

// ObserveHTTPRequest records the latency of one request.
func ObserveHTTPRequest(method, route, status string, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}
