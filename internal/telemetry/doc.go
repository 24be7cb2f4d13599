// Package telemetry provides OpenTelemetry initialization and helpers
// for distributed tracing across the yeschef server and worker.
//
// Traces and logs are exported over OTLP/HTTP. The endpoint may carry a
// base path (for example a Grafana Cloud "/otlp" gateway), in which case
// the signal paths are appended to it.
package telemetry
