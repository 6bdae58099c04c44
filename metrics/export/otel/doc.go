// Package otel exports the registry's in-process counters as OpenTelemetry
// observable instruments. The exporter is pull-based and allocation-light:
// it registers one callback that reads a snapshot per collection.
package otel
