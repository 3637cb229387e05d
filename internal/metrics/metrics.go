package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upload results recorded by UploadsTotal.
const (
	UploadOK       = "ok"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// Metrics holds the Prometheus collectors for the API.
//
// Metrics:
//   - projects_http_requests_total{method,route,status}
//   - projects_http_request_duration_seconds{method,route}
//   - projects_media_uploads_total{result}
//   - projects_mcp_sessions_active
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UploadsTotal    *prometheus.CounterVec
	MCPSessions     prometheus.Gauge
}

// New registers the collectors on reg. Each registry accepts one call.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projects_http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "projects_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		UploadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "projects_media_uploads_total",
				Help: "Image uploads by outcome",
			},
			[]string{"result"}, // ok, rejected, failed
		),
		MCPSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "projects_mcp_sessions_active",
			Help: "Open MCP sessions",
		}),
	}
}

// RecordUpload is nil-safe so handlers can run without metrics.
func (m *Metrics) RecordUpload(result string) {
	if m == nil {
		return
	}
	m.UploadsTotal.WithLabelValues(result).Inc()
}

// MCPSessionGauge returns nil when m is nil.
func (m *Metrics) MCPSessionGauge() prometheus.Gauge {
	if m == nil {
		return nil
	}
	return m.MCPSessions
}
