package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padelpoint",
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "padelpoint",
			Name:      "booking_created_total",
			Help:      "Count of bookings created.",
		},
	)

	bookingDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "padelpoint",
			Name:      "booking_deleted_total",
			Help:      "Count of bookings soft-deleted.",
		},
	)

	reportGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "padelpoint",
			Name:      "report_generated_total",
			Help:      "Count of revenue reports generated by format.",
		},
		[]string{"format"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingCreated, bookingDeleted, reportGenerated)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncBookingDeleted() {
	bookingDeleted.Inc()
}

func IncReportGenerated(format string) {
	reportGenerated.WithLabelValues(format).Inc()
}
