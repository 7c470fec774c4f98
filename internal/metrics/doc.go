// Package metrics records documentation build metrics.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// nil-check. When metrics.textfile is configured the CLI swaps in a
// PrometheusRecorder backed by its own registry and writes the registry to the
// textfile after every run, for pickup by the node-exporter textfile collector.
package metrics
