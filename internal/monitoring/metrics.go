package monitoring

import (
	"strconv"
	"time"

	"eventease/internal/notify"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	eventMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_mutations_total",
			Help: "Event create/update/publish/delete operations",
		},
		[]string{"op"},
	)
)

// ObserveRequest records one completed HTTP request.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SubscribeMutations counts event mutations off the notification bus.
// Returns the unsubscribe handle.
func SubscribeMutations(bus *notify.Bus) func() {
	return bus.Subscribe(func(change notify.Change) {
		eventMutations.WithLabelValues(string(change.Op)).Inc()
	})
}
