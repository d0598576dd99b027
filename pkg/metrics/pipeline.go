package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records counters for the attribution/profit pipeline.
type PipelineMetrics struct {
	resolutions    *prometheus.CounterVec
	degradedSource *prometheus.CounterVec
	enrichedRows   prometheus.Counter
	resolveSeconds prometheus.Histogram
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conversion_resolutions_total",
		Help: "Resolved ads partitioned by the conversion source that won.",
	}, []string{"source"})
	degraded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conversion_source_degraded_total",
		Help: "Source fetches that failed and degraded to an empty map.",
	}, []string{"source"})
	enriched := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "profit_enriched_rows_total",
		Help: "Metric rows successfully enriched with profit columns.",
	})
	resolveSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "conversion_resolve_duration_seconds",
		Help:    "Wall time of a full multi-source resolution.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(resolutions, degraded, enriched, resolveSeconds)
	return &PipelineMetrics{
		resolutions:    resolutions,
		degradedSource: degraded,
		enrichedRows:   enriched,
		resolveSeconds: resolveSeconds,
	}
}

// IncResolution counts one resolved ad for the winning source.
func (p *PipelineMetrics) IncResolution(source string) {
	if p == nil || p.resolutions == nil {
		return
	}
	p.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncDegraded counts a source fetch that failed and was isolated.
func (p *PipelineMetrics) IncDegraded(source string) {
	if p == nil || p.degradedSource == nil {
		return
	}
	p.degradedSource.WithLabelValues(normalizeLabel(source)).Inc()
}

// AddEnrichedRows counts rows written by the profit enrichment path.
func (p *PipelineMetrics) AddEnrichedRows(n int) {
	if p == nil || p.enrichedRows == nil || n <= 0 {
		return
	}
	p.enrichedRows.Add(float64(n))
}

// ObserveResolveDuration records the duration of one resolution call.
func (p *PipelineMetrics) ObserveResolveDuration(d time.Duration) {
	if p == nil || p.resolveSeconds == nil {
		return
	}
	p.resolveSeconds.Observe(d.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
