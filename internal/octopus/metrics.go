package octopus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "octopus_upstream_requests_total",
			Help: "Total number of requests made to the Octopus Energy API.",
		},
		[]string{"endpoint", "status"},
	)
	upstreamRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "octopus_upstream_request_duration_seconds",
			Help:    "Octopus Energy API request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

// observeUpstreamRequest records one upstream call. A status of 0 means the
// request never produced a response (transport error).
func observeUpstreamRequest(endpoint string, status int, dur time.Duration) {
	upstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	upstreamRequestDurationSeconds.WithLabelValues(endpoint).Observe(dur.Seconds())
}
