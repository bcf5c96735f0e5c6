package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module. Tracks ledger
// writes, duplicate rejections, and leaderboard computation latency.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	DuplicatesRejected   prometheus.Counter
	LeaderboardDuration  prometheus.Histogram
}

// New creates a Metrics instance with all registration module metrics registered.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusconnect_registrations_created_total",
			Help: "Total number of registrations written to the ledger",
		}),
		DuplicatesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "campusconnect_registrations_duplicate_total",
			Help: "Total number of register attempts rejected as duplicates",
		}),
		LeaderboardDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "campusconnect_leaderboard_duration_seconds",
			Help:    "Duration of leaderboard aggregation computations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementRegistrationsCreated records a successful ledger write.
func (m *Metrics) IncrementRegistrationsCreated() {
	if m == nil {
		return
	}
	m.RegistrationsCreated.Inc()
}

// IncrementDuplicatesRejected records a duplicate-registration rejection.
func (m *Metrics) IncrementDuplicatesRejected() {
	if m == nil {
		return
	}
	m.DuplicatesRejected.Inc()
}

// ObserveLeaderboard records the duration of a leaderboard computation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLeaderboard(start time.Time) {
	if m == nil {
		return
	}
	m.LeaderboardDuration.Observe(time.Since(start).Seconds())
}
