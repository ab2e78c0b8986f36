package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	fetchDuration *prom.HistogramVec
	fetchResults  *prom.CounterVec
	cacheResults  *prom.CounterVec
	fallbacks     prom.Counter
	uploadResults *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.fetchDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "megamenu",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of menu retrieval attempts per source",
			Buckets:   prom.DefBuckets,
		}, []string{"source"})
		pr.fetchResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "megamenu",
			Name:      "fetch_results_total",
			Help:      "Menu retrieval attempt counts by source and outcome",
		}, []string{"source", "result"})
		pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "megamenu",
			Name:      "cache_results_total",
			Help:      "Cache read outcomes (hit/miss)",
		}, []string{"result"})
		pr.fallbacks = prom.NewCounter(prom.CounterOpts{
			Namespace: "megamenu",
			Name:      "fallback_total",
			Help:      "Count of requests served the built-in fallback menu",
		})
		pr.uploadResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "megamenu",
			Name:      "upload_results_total",
			Help:      "Administrative upload outcomes",
		}, []string{"result"})
		reg.MustRegister(pr.fetchDuration, pr.fetchResults, pr.cacheResults, pr.fallbacks, pr.uploadResults)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveFetchDuration(source string, d time.Duration) {
	if p == nil || p.fetchDuration == nil {
		return
	}
	p.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchResult(source string, result ResultLabel) {
	if p == nil || p.fetchResults == nil {
		return
	}
	p.fetchResults.WithLabelValues(source, string(result)).Inc()
}

func (p *PrometheusRecorder) IncCacheHit() {
	if p == nil || p.cacheResults == nil {
		return
	}
	p.cacheResults.WithLabelValues("hit").Inc()
}

func (p *PrometheusRecorder) IncCacheMiss() {
	if p == nil || p.cacheResults == nil {
		return
	}
	p.cacheResults.WithLabelValues("miss").Inc()
}

func (p *PrometheusRecorder) IncFallback() {
	if p == nil || p.fallbacks == nil {
		return
	}
	p.fallbacks.Inc()
}

func (p *PrometheusRecorder) IncUploadResult(result ResultLabel) {
	if p == nil || p.uploadResults == nil {
		return
	}
	p.uploadResults.WithLabelValues(string(result)).Inc()
}
