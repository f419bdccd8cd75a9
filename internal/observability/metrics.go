package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	clientRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blt",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Total BL/T request exchanges.",
		},
		[]string{"op", "outcome"},
	)
	clientRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "blt",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "BL/T request exchange duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
	subscriptionFrames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "blt",
			Subsystem: "client",
			Name:      "subscription_frames_total",
			Help:      "Push frames consumed from subscription streams.",
		},
		[]string{"kind"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(clientRequests, clientRequestDuration, subscriptionFrames)
	})
}

func RecordRequest(op, outcome string, duration time.Duration) {
	RegisterMetrics()
	clientRequests.WithLabelValues(op, outcome).Inc()
	clientRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func RecordSubscriptionFrame(kind string) {
	RegisterMetrics()
	subscriptionFrames.WithLabelValues(kind).Inc()
}
