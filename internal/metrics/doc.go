// Package metrics provides build observability for docversions.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics cost nothing unless a real implementation is
// wired in:
//
//	reg := prometheus.NewRegistry()
//	p := plugin.New(cfg, plugin.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// HTTPHandler serves a registry for scraping (used by `docversions watch`).
package metrics
