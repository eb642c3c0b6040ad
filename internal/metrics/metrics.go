// Package metrics holds Prometheus instruments for the sign-up service.  All
// collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for SubmissionsTotal.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
)

var (
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_submissions_total",
			Help: "Form submissions by outcome.",
		}, []string{"form", "outcome"})

	FieldErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signup_field_errors_total",
			Help: "Validation failures per field.",
		}, []string{"form", "field"})

	ValidationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signup_validation_seconds",
			Help:    "Time spent validating one submission.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"form"})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		FieldErrorsTotal,
		ValidationSeconds,
	)
}

// ObserveValidation records one validation of formID that started at start.
// failed lists the failing field names; an empty slice counts as accepted.
func ObserveValidation(formID string, start time.Time, failed []string) {
	ValidationSeconds.WithLabelValues(formID).Observe(time.Since(start).Seconds())
	if len(failed) == 0 {
		SubmissionsTotal.WithLabelValues(formID, OutcomeAccepted).Inc()
		return
	}
	SubmissionsTotal.WithLabelValues(formID, OutcomeRejected).Inc()
	for _, f := range failed {
		FieldErrorsTotal.WithLabelValues(formID, f).Inc()
	}
}

// ObserveMalformed counts a request whose body could not be decoded.
func ObserveMalformed(formID string) {
	SubmissionsTotal.WithLabelValues(formID, OutcomeMalformed).Inc()
}
