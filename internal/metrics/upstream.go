package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "opsdash"

// Upstream names used as label values.
const (
	UpstreamVercel = "vercel"
	UpstreamGitHub = "github"
	UpstreamFCM    = "fcm"
	UpstreamProbe  = "probe"
)

// Call outcomes used as label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeDegraded = "degraded"
)

var (
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound requests to upstream platforms by outcome",
		},
		[]string{"upstream", "outcome"},
	)

	probeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "probe_duration_seconds",
			Help:      "Health probe latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
)

// ObserveUpstream counts one upstream call.
func ObserveUpstream(upstream, outcome string) {
	upstreamRequests.WithLabelValues(upstream, outcome).Inc()
}

// ObserveProbe records the latency of one health probe.
func ObserveProbe(status string, d time.Duration) {
	probeDuration.WithLabelValues(status).Observe(d.Seconds())
}
