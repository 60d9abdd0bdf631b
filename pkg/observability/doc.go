/*
Package observability provides Prometheus instrumentation for the transform engine.

Metrics are fed through transform.Hooks, so any engine built with
transform.WithHooks(metrics.Hooks()) reports without further wiring.
*/
package observability
