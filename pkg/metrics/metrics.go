// Package metrics defines the Prometheus metric collectors for the
// compression service and exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	ComparisonsTotal     *prometheus.CounterVec
	EncodedBitsTotal     *prometheus.CounterVec
	EncodeDuration       *prometheus.HistogramVec
	CompressionRatio     *prometheus.HistogramVec
	DatasetPostingLists  prometheus.Histogram
	ReportCacheHitsTotal prometheus.Counter
	ReportCacheMisses    prometheus.Counter
	ReportSinkErrors     *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		ComparisonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "comparisons_total",
				Help: "Total comparison runs by gap codec, frequency codec, and status.",
			},
			[]string{"gap_codec", "frequency_codec", "status"},
		),
		EncodedBitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "encoded_bits_total",
				Help: "Total bits produced per codec and field (gaps, frequencies).",
			},
			[]string{"codec", "field"},
		),
		EncodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "encode_duration_seconds",
				Help:    "Wall time of a full encode pass over a dataset.",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"gap_codec", "frequency_codec"},
		),
		CompressionRatio: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "compression_ratio",
				Help:    "Baseline bits over encoded bits per comparison run.",
				Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32},
			},
			[]string{"gap_codec", "frequency_codec"},
		),
		DatasetPostingLists: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dataset_posting_lists",
				Help:    "Number of posting lists per compared dataset.",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000},
			},
		),
		ReportCacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "report_cache_hits_total",
				Help: "Total report cache hits.",
			},
		),
		ReportCacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "report_cache_misses_total",
				Help: "Total report cache misses.",
			},
		),
		ReportSinkErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "report_sink_errors_total",
				Help: "Failed report deliveries by sink (postgres, kafka, redis).",
			},
			[]string{"sink"},
		),
	}

	prometheus.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.ComparisonsTotal,
		m.EncodedBitsTotal,
		m.EncodeDuration,
		m.CompressionRatio,
		m.DatasetPostingLists,
		m.ReportCacheHitsTotal,
		m.ReportCacheMisses,
		m.ReportSinkErrors,
	)

	return m
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
