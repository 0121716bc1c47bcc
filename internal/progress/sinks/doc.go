// Package sinks holds the progress.Sink implementations: a zap log sink and
// a Prometheus metrics sink.
package sinks
