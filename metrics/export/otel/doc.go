// Package otel bridges the in-process session counters into OpenTelemetry as
// observable counters. The exporter pulls a snapshot on every collection
// cycle; it holds no state of its own beyond instrument handles.
package otel
