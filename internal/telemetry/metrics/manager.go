package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterApiRequests       *prometheus.CounterVec
	CounterCancelledRequests prometheus.Counter
	CounterEditPartialSaga   prometheus.Counter
	CounterPlanTransitions   *prometheus.CounterVec

	// gauges
	GaugeRequestsInFlight prometheus.Gauge

	// histograms
	HistogramRequestDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("fluxtrack", "client", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fluxtrack", "client", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterApiRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request",
		Help:      "The total number of outgoing API requests",
	}, []string{"method", "status"})
	counterCancelledRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_cancelled",
		Help:      "The total number of API requests cancelled by the caller",
	})
	counterEditPartialSaga := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "log_edit_partial_restore",
		Help:      "Daily log edits where the training restore step failed",
	})
	counterPlanTransitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "plan_transition",
		Help:      "The total number of plan lifecycle transitions",
	}, []string{"transition", "outcome"})

	gaugeRequestsInFlight := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_requests_in_flight",
		Help:      "Current number of in-flight API requests",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "api_request_duration_seconds",
		Help:      "API request duration, per method",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	return &Manager{
		CounterApiRequests:       counterApiRequests,
		CounterCancelledRequests: counterCancelledRequests,
		CounterEditPartialSaga:   counterEditPartialSaga,
		CounterPlanTransitions:   counterPlanTransitions,
		GaugeRequestsInFlight:    gaugeRequestsInFlight,
		HistogramRequestDuration: histogramRequestDuration,
	}
}
