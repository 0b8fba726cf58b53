// Package metrics exposes Prometheus instrumentation for guided sessions, the
// chat relay, and document analysis. A nil *Metrics records nothing, so
// systems constructed without metrics (tests, CLI commands) need no guards.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clarus"

// Metrics holds the service collectors.
type Metrics struct {
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	answers           *prometheus.CounterVec
	chatRequests      *prometheus.CounterVec
	toolCalls         *prometheus.CounterVec
	upstreamDuration  *prometheus.HistogramVec
	documents         *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "guided",
				Name:      "sessions_started_total",
				Help:      "Guided sessions started, by workflow.",
			},
			[]string{"workflow"},
		),
		sessionsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "guided",
				Name:      "sessions_completed_total",
				Help:      "Guided sessions that reached their terminal step, by workflow.",
			},
			[]string{"workflow"},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "guided",
				Name:      "answers_total",
				Help:      "Answer submissions, by workflow and outcome.",
			},
			[]string{"workflow", "outcome"},
		),
		chatRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "requests_total",
				Help:      "Chat relay requests, by mode and outcome.",
			},
			[]string{"mode", "outcome"},
		),
		toolCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "tool_calls_total",
				Help:      "Tool invocations requested by the provider, by tool name.",
			},
			[]string{"tool"},
		),
		upstreamDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "upstream_duration_seconds",
				Help:      "Duration of chat completion calls, by mode.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "documents",
				Name:      "analyzed_total",
				Help:      "Documents analyzed, by detected content type.",
			},
			[]string{"content_type"},
		),
	}

	reg.MustRegister(
		m.sessionsStarted,
		m.sessionsCompleted,
		m.answers,
		m.chatRequests,
		m.toolCalls,
		m.upstreamDuration,
		m.documents,
	)
	return m
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the exposition format for g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionStarted(workflow string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(workflow).Inc()
}

func (m *Metrics) SessionCompleted(workflow string) {
	if m == nil {
		return
	}
	m.sessionsCompleted.WithLabelValues(workflow).Inc()
}

// AnswerRecorded counts a submission; outcome is "advanced", "completed", or
// the rejection reason.
func (m *Metrics) AnswerRecorded(workflow, outcome string) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(workflow, outcome).Inc()
}

func (m *Metrics) ChatRequest(mode, outcome string) {
	if m == nil {
		return
	}
	m.chatRequests.WithLabelValues(mode, outcome).Inc()
}

func (m *Metrics) ToolCall(tool string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool).Inc()
}

func (m *Metrics) UpstreamDuration(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) DocumentAnalyzed(contentType string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(contentType).Inc()
}
