package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "ownerportal_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	statementGenerateTotal   *prometheus.CounterVec
	statementGenerateLatency *prometheus.HistogramVec
	statementExportTotal     *prometheus.CounterVec

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	automationRuns     *prometheus.CounterVec
	automationDuration prometheus.Histogram

	artifactsWritten *prometheus.CounterVec
	emailsSent       *prometheus.CounterVec
)

// Init registers observability metrics.
func Init() {
	registerOnce.Do(func() {
		statementGenerateTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_generate_total",
				Help: "Total statement generate operations by result",
			},
			[]string{"result"},
		)
		statementGenerateLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "statement_generate_latency_seconds",
				Help:    "Statement generate latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		statementExportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "statement_export_total",
				Help: "Total statement artifact renders by format and result",
			},
			[]string{"format", "result"},
		)

		upstreamRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "upstream_requests_total",
				Help: "Total upstream API fetches by service and result",
			},
			[]string{"service", "result"},
		)
		upstreamLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "upstream_latency_seconds",
				Help:    "Upstream fetch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service"},
		)

		automationRuns = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "automation_runs_total",
				Help: "Total automation job items by job and result",
			},
			[]string{"job", "result"},
		)
		automationDuration = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "automation_batch_duration_seconds",
				Help:    "Automation batch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		artifactsWritten = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "artifacts_written_total",
				Help: "Total report artifacts written by format",
			},
			[]string{"format"},
		)
		emailsSent = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "emails_sent_total",
				Help: "Total report emails sent by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			statementGenerateTotal,
			statementGenerateLatency,
			statementExportTotal,
			upstreamRequests,
			upstreamLatency,
			automationRuns,
			automationDuration,
			artifactsWritten,
			emailsSent,
		)
	})
}

// ObserveStatementGenerate records generate latency and result.
func ObserveStatementGenerate(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if statementGenerateTotal != nil {
		statementGenerateTotal.WithLabelValues(result).Inc()
	}
	if statementGenerateLatency != nil {
		statementGenerateLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncStatementExport counts one artifact render.
func IncStatementExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if statementExportTotal != nil {
		statementExportTotal.WithLabelValues(format, result).Inc()
	}
}

// ObserveUpstream records an upstream fetch.
func ObserveUpstream(service, result string, duration time.Duration) {
	if service == "" {
		service = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if upstreamRequests != nil {
		upstreamRequests.WithLabelValues(service, result).Inc()
	}
	if upstreamLatency != nil {
		upstreamLatency.WithLabelValues(service).Observe(duration.Seconds())
	}
}

// IncAutomationRun counts one automation item by job and result.
func IncAutomationRun(job, result string) {
	if job == "" {
		job = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if automationRuns != nil {
		automationRuns.WithLabelValues(job, result).Inc()
	}
}

// ObserveAutomationBatch records batch duration.
func ObserveAutomationBatch(duration time.Duration) {
	if automationDuration != nil {
		automationDuration.Observe(duration.Seconds())
	}
}

// IncArtifactWritten counts one artifact write by format.
func IncArtifactWritten(format string) {
	if format == "" {
		format = "unknown"
	}
	if artifactsWritten != nil {
		artifactsWritten.WithLabelValues(format).Inc()
	}
}

// IncEmailSent counts one report email by result.
func IncEmailSent(result string) {
	if result == "" {
		result = resultSuccess
	}
	if emailsSent != nil {
		emailsSent.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
