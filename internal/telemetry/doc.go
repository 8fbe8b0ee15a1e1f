// Package telemetry exposes Prometheus metrics for contact submissions and
// configures optional OpenTelemetry trace export.
package telemetry
