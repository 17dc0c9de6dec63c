package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "shareit",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "bookings_created_total",
			Help:      "Bookings created.",
		},
	)

	bookingStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_status_changes_total",
			Help:      "Booking approval decisions by resulting status.",
		},
		[]string{"status"},
	)

	approvalConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shareit",
			Name:      "booking_approval_conflicts_total",
			Help:      "Approval decisions that lost the race to a concurrent decision.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, bookingsCreated, bookingStatusChanges, approvalConflicts)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncBookingCreated counts a persisted booking.
func IncBookingCreated() {
	bookingsCreated.Inc()
}

// IncStatusChange counts an approval decision.
func IncStatusChange(status string) {
	bookingStatusChanges.WithLabelValues(status).Inc()
}

// IncApprovalConflict counts an approval that lost the race to a concurrent decision.
func IncApprovalConflict() {
	approvalConflicts.Inc()
}

// ApprovalConflicts exposes the conflict counter for assertions.
func ApprovalConflicts() prometheus.Counter {
	return approvalConflicts
}
