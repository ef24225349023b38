package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bootstrapTotal  *prometheus.CounterVec
	reportDuration  *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder on its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantinvest_api_requests_total",
				Help: "Total number of brokerage API requests",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quantinvest_api_request_duration_seconds",
				Help:    "Duration of brokerage API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		bootstrapTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantinvest_session_bootstrap_total",
				Help: "Session bootstrap outcomes by final state",
			},
			[]string{"state"},
		),
		reportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quantinvest_report_duration_seconds",
				Help:    "Duration of report computations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordRequest records one API request. status 0 means the request failed
// before a response arrived.
func (r *Recorder) RecordRequest(endpoint string, status int, elapsed time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.requestsTotal.WithLabelValues(endpoint, label).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordBootstrap records the final state of a session bootstrap.
func (r *Recorder) RecordBootstrap(state string) {
	r.bootstrapTotal.WithLabelValues(state).Inc()
}

// RecordReport records how long a report took to compute.
func (r *Recorder) RecordReport(report string, elapsed time.Duration) {
	r.reportDuration.WithLabelValues(report).Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in text exposition format for the
// node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Nop discards all metrics.
type Nop struct{}

func (Nop) RecordRequest(string, int, time.Duration) {}
func (Nop) RecordBootstrap(string)                   {}
func (Nop) RecordReport(string, time.Duration)       {}
