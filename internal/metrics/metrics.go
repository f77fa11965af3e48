// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	profileRequestsCounter *prometheus.CounterVec
	eventBroadcastsCounter *prometheus.CounterVec
	requestDurationHist    *prometheus.HistogramVec
)

// Profile request actions and outcomes used as label values.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionList   = "list"
	ActionGet    = "get"
	ActionDelete = "delete"

	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		profileRequestsCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "profile_requests_total",
				Help: "Total number of profile API requests by action and outcome.",
			},
			[]string{"action", "outcome"},
		)

		eventBroadcastsCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_broadcasts_total",
				Help: "Total number of events published on the broadcast bus by topic.",
			},
			[]string{"topic"},
		)

		requestDurationHist = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		)

		prometheus.MustRegister(
			profileRequestsCounter,
			eventBroadcastsCounter,
			requestDurationHist,
		)

		// Ensure counter vectors are visible at /metrics before first increment.
		for _, action := range []string{ActionCreate, ActionUpdate, ActionList, ActionGet, ActionDelete} {
			profileRequestsCounter.WithLabelValues(action, OutcomeOK)
		}
	})
}

func IncProfileRequest(action, outcome string) {
	Init()
	profileRequestsCounter.WithLabelValues(action, outcome).Inc()
}

func IncEventBroadcast(topic string) {
	Init()
	eventBroadcastsCounter.WithLabelValues(topic).Inc()
}

func ObserveRequestDuration(method string, d time.Duration) {
	Init()
	requestDurationHist.WithLabelValues(method).Observe(d.Seconds())
}
