package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultSkipped ResultLabel = "skipped"
)

// Recorder defines observability hooks for the versioning plugin. Implementations
// may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	IncPhaseResult(phase string, result ResultLabel)
	IncHookModuleLoad(result ResultLabel)
	ObserveHookRun(event string, d time.Duration, result ResultLabel)
	AddInjectedAssets(kind string, n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration)        {}
func (NoopRecorder) IncPhaseResult(string, ResultLabel)                {}
func (NoopRecorder) IncHookModuleLoad(ResultLabel)                     {}
func (NoopRecorder) ObserveHookRun(string, time.Duration, ResultLabel) {}
func (NoopRecorder) AddInjectedAssets(string, int)                     {}

// Result maps an error to a success/failed label.
func Result(err error) ResultLabel {
	if err != nil {
		return ResultFailed
	}
	return ResultSuccess
}
