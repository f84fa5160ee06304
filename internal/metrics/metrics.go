package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the client-side collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry        prometheus.Gatherer
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Transitions     *prometheus.CounterVec
}

// New registers the collectors on reg. A *prometheus.Registry serves as
// both registerer and gatherer.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_client_api_requests_total",
				Help: "Total number of quiz API requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quiz_client_api_request_duration_seconds",
				Help:    "Duration of quiz API requests",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_client_session_transitions_total",
				Help: "Quiz and memorization session state transitions",
			},
			[]string{"mode", "state"},
		),
	}
	reg.MustRegister(m.RequestCounter, m.RequestDuration, m.Transitions)
	return m
}

// ObserveRequest records one API call. status 0 means the request never got
// a response.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.RequestCounter.WithLabelValues(method, endpoint, label).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) Transition(mode, state string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(mode, state).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
