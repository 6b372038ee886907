// Package metrics defines the Prometheus metrics recorded by the transcriber.
package metrics
