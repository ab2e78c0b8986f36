// Package metrics defines the observability hooks for the menu acquisition
// chain. Implementations may forward to Prometheus; the noop recorder keeps
// metrics optional for embedded use.
package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for menu retrieval and caching. All
// methods must be safe for nil receivers when using the NoopRecorder
// (allowing optional injection).
type Recorder interface {
	ObserveFetchDuration(source string, d time.Duration)
	IncFetchResult(source string, result ResultLabel)
	IncCacheHit()
	IncCacheMiss()
	IncFallback()
	IncUploadResult(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(string, time.Duration) {}
func (NoopRecorder) IncFetchResult(string, ResultLabel)         {}
func (NoopRecorder) IncCacheHit()                               {}
func (NoopRecorder) IncCacheMiss()                              {}
func (NoopRecorder) IncFallback()                               {}
func (NoopRecorder) IncUploadResult(ResultLabel)                {}
