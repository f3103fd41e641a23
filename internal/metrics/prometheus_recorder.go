package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	phaseDuration  *prom.HistogramVec
	phaseResults   *prom.CounterVec
	moduleLoads    *prom.CounterVec
	hookDuration   *prom.HistogramVec
	hookRuns       *prom.CounterVec
	injectedAssets *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docversions",
			Name:      "phase_duration_seconds",
			Help:      "Duration of plugin build phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		phaseResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docversions",
			Name:      "phase_results_total",
			Help:      "Plugin phase results by outcome",
		}, []string{"phase", "result"}),
		moduleLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docversions",
			Name:      "hook_module_loads_total",
			Help:      "Hook module load attempts by result (cache hits are not counted)",
		}, []string{"result"}),
		hookDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docversions",
			Name:      "hook_run_duration_seconds",
			Help:      "Duration of event dispatch to hook handlers",
			Buckets:   prom.DefBuckets,
		}, []string{"event"}),
		hookRuns: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docversions",
			Name:      "hook_runs_total",
			Help:      "Event dispatches by event and result",
		}, []string{"event", "result"}),
		injectedAssets: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docversions",
			Name:      "injected_assets_total",
			Help:      "Theme assets appended to the file manifest",
		}, []string{"kind"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.phaseResults, pr.moduleLoads, pr.hookDuration, pr.hookRuns, pr.injectedAssets)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncHookModuleLoad(result ResultLabel) {
	if p == nil {
		return
	}
	p.moduleLoads.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveHookRun(event string, d time.Duration, result ResultLabel) {
	if p == nil {
		return
	}
	p.hookDuration.WithLabelValues(event).Observe(d.Seconds())
	p.hookRuns.WithLabelValues(event, string(result)).Inc()
}

func (p *PrometheusRecorder) AddInjectedAssets(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.injectedAssets.WithLabelValues(kind).Add(float64(n))
}
