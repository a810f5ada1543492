package prober

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zachfi/mpegprobe/pkg/mpegaudio"
)

const metricsNamespace = "mpegprobe"

type metrics struct {
	probes     *prometheus.CounterVec
	candidates prometheus.Counter
	headers    prometheus.Counter
	rejected   *prometheus.CounterVec
	duration   prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		probes: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: module,
			Name:      "probes_total",
			Help:      "Probes by outcome.",
		}, []string{"outcome"}),
		candidates: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: module,
			Name:      "candidates_total",
			Help:      "Frame sync candidates located.",
		}),
		headers: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: module,
			Name:      "headers_total",
			Help:      "Valid frame headers decoded.",
		}),
		rejected: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: module,
			Name:      "rejected_candidates_total",
			Help:      "Candidates rejected by reason.",
		}, []string{"reason"}),
		duration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: module,
			Name:      "probe_duration_seconds",
			Help:      "Time spent acquiring and scanning one target.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, r := range mpegaudio.Reasons {
		m.rejected.WithLabelValues(r.String())
	}

	return m
}

func (m *metrics) observe(res *Result) {
	m.duration.Observe(res.Duration.Seconds())

	if res.err != nil {
		m.probes.WithLabelValues("acquisition_failed").Inc()
		return
	}
	m.probes.WithLabelValues("ok").Inc()

	m.candidates.Add(float64(res.stats.Candidates))
	m.headers.Add(float64(res.stats.Accepted))
	for r, n := range res.stats.Rejected {
		m.rejected.WithLabelValues(r.String()).Add(float64(n))
	}
}
