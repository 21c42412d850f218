package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure Prometheus implements PipelineMetrics
var _ driven.PipelineMetrics = (*Prometheus)(nil)

// Prometheus records pipeline metrics in its own registry
type Prometheus struct {
	eventsTotal        *prometheus.CounterVec
	eventsDeduplicated prometheus.Counter
	ingestsTotal       *prometheus.CounterVec
	queriesTotal       *prometheus.CounterVec
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewPrometheus creates the metrics and registers them with a fresh registry
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "inner_rag"
	}

	m := &Prometheus{
		registry: prometheus.NewRegistry(),
	}

	m.eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Chat events accepted for processing, by route",
		},
		[]string{"kind"},
	)

	m.eventsDeduplicated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_deduplicated_total",
			Help:      "Redelivered chat events that were dropped",
		},
	)

	m.ingestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Completed ingestions by document type and outcome",
		},
		[]string{"type", "outcome"},
	)

	m.queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Answered questions by outcome",
		},
		[]string{"outcome"},
	)

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.registry.MustRegister(
		m.eventsTotal,
		m.eventsDeduplicated,
		m.ingestsTotal,
		m.queriesTotal,
		m.requestsTotal,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Prometheus) EventReceived(kind string) {
	m.eventsTotal.WithLabelValues(kind).Inc()
}

func (m *Prometheus) EventDeduplicated() {
	m.eventsDeduplicated.Inc()
}

func (m *Prometheus) IngestCompleted(docType domain.DocType, outcome domain.Outcome) {
	m.ingestsTotal.WithLabelValues(string(docType), string(outcome)).Inc()
}

func (m *Prometheus) QueryCompleted(outcome domain.Outcome) {
	m.queriesTotal.WithLabelValues(string(outcome)).Inc()
}

func (m *Prometheus) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Prometheus) Registry() *prometheus.Registry {
	return m.registry
}
