// Package metrics exports admission counters to prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	admissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_admissions_total",
		Help: "Check-in decisions by verdict.",
	}, []string{"verdict"})

	admissionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "attendance_admission_duration_seconds",
		Help:    "Time spent deciding and persisting a check-in, lock wait included.",
		Buckets: prometheus.DefBuckets,
	})

	sessionsClosed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_sessions_auto_closed_total",
		Help: "Sessions closed by the expiry job.",
	})
)

func init() {
	prometheus.MustRegister(admissions, admissionDuration, sessionsClosed)
}

// ObserveAdmission records one decision. verdict is "accepted", a rejection
// reason, or "error" for storage failures.
func ObserveAdmission(verdict string, elapsed time.Duration) {
	admissions.WithLabelValues(verdict).Inc()
	admissionDuration.Observe(elapsed.Seconds())
}

func SessionsClosed(n int) {
	if n > 0 {
		sessionsClosed.Add(float64(n))
	}
}
