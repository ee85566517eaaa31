package server

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Vijay-1289/opportune/internal/classify"
)

// Metrics is registered on its own registry, never the global default.
type Metrics struct {
	registry *prometheus.Registry

	Classified      *prometheus.CounterVec
	Skipped         *prometheus.CounterVec
	BatchSize       prometheus.Histogram
	RequestDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Classified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opportune_messages_classified_total",
			Help: "Messages classified into an opportunity, by category",
		}, []string{"category"}),
		Skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opportune_messages_skipped_total",
			Help: "Messages dropped by the classifier, by reason",
		}, []string{"reason"}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "opportune_classify_batch_size",
			Help:    "Number of messages per classification batch",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 250, 500},
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "opportune_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveBatch records one ClassifyAll outcome.
func (m *Metrics) ObserveBatch(batch classify.Batch) {
	m.BatchSize.Observe(float64(batch.Total()))
	for _, opp := range batch.Opportunities {
		m.Classified.WithLabelValues(string(opp.Category)).Inc()
	}
	for _, skip := range batch.Skipped {
		m.Skipped.WithLabelValues(skipReason(skip.Reason)).Inc()
	}
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, classify.ErrMissingID):
		return "missing_id"
	case errors.Is(err, classify.ErrInvalidTimestamp):
		return "invalid_timestamp"
	case errors.Is(err, classify.ErrPanic):
		return "panic"
	default:
		return "other"
	}
}
