package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"querybot/internal/providers"
)

// Metrics holds the collectors of one process. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	uploads        *prometheus.CounterVec
	queries        *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	jobs           *prometheus.CounterVec
	chunksIndexed  prometheus.Counter
	providerErrors *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "querybot_uploads_total",
			Help: "Upload requests by outcome.",
		}, []string{"status"}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "querybot_queries_total",
			Help: "Query requests by outcome.",
		}, []string{"status"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "querybot_query_duration_seconds",
			Help:    "End-to-end latency of answered queries.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "querybot_jobs_total",
			Help: "Ingestion jobs by outcome.",
		}, []string{"status"}),
		chunksIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "querybot_chunks_indexed_total",
			Help: "Chunks written to the vector index.",
		}),
		providerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "querybot_provider_errors_total",
			Help: "Embedding and LLM provider failures by kind and class.",
		}, []string{"kind", "class"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.uploads, m.queries, m.queryDuration, m.jobs, m.chunksIndexed, m.providerErrors,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Upload(status string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(status).Inc()
}

func (m *Metrics) Query(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(status).Inc()
	if status == "ok" {
		m.queryDuration.Observe(elapsed.Seconds())
	}
}

func (m *Metrics) Job(status string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(status).Inc()
}

func (m *Metrics) ChunksIndexed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.chunksIndexed.Add(float64(n))
}

// ProviderError counts a failed call; kind is "embed" or "llm".
func (m *Metrics) ProviderError(kind string, err error) {
	if m == nil || err == nil {
		return
	}
	m.providerErrors.WithLabelValues(kind, string(providers.ClassifyError(err))).Inc()
}
