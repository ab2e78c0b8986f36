// Package provider implements the menu data provider: cache first, then the
// configured retrieval strategies in order, then the built-in fallback.
package provider

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/megamenu/internal/cache"
	"git.home.luguber.info/inful/megamenu/internal/errors"
	"git.home.luguber.info/inful/megamenu/internal/logfields"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/metrics"
	"git.home.luguber.info/inful/megamenu/internal/retry"
	"git.home.luguber.info/inful/megamenu/internal/store"
)

// Provider produces validated menu data. GetMenuData never fails: every
// retrieval or parse error along the chain is logged, counted, and
// swallowed, degrading to the built-in default. Navigation staying up beats
// navigation being current.
type Provider struct {
	sources  []store.Source
	cache    cache.Cache
	uploader *store.Uploader
	policy   retry.Policy
	recorder metrics.Recorder

	// mu serializes the fetch chain so concurrent GetMenuData calls do not
	// race to repopulate the cache with duplicate requests.
	mu sync.Mutex

	// sleep is swapped out by tests to skip backoff delays.
	sleep func(context.Context, time.Duration)
}

// Option configures a Provider.
type Option func(*Provider)

// WithUploader enables the administrative upload path.
func WithUploader(u *store.Uploader) Option {
	return func(p *Provider) { p.uploader = u }
}

// WithRetryPolicy overrides the default backoff policy.
func WithRetryPolicy(policy retry.Policy) Option {
	return func(p *Provider) { p.policy = policy }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Provider) { p.recorder = r }
}

// New creates a provider over the given strategy chain and cache.
func New(sources []store.Source, c cache.Cache, opts ...Option) *Provider {
	p := &Provider{
		sources:  sources,
		cache:    c,
		policy:   retry.DefaultPolicy(),
		recorder: metrics.NoopRecorder{},
		sleep:    sleepCtx,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// GetMenuData returns a menu, always. Order: fresh cache entry, then each
// configured source, then the fallback constant.
func (p *Provider) GetMenuData(ctx context.Context) menu.MenuData {
	p.mu.Lock()
	defer p.mu.Unlock()

	if data, ok, err := p.cache.Read(ctx); err == nil && ok {
		p.recorder.IncCacheHit()
		return data
	} else if err != nil {
		// Backend failure is a miss; the chain below repopulates it.
		slog.LogAttrs(ctx, slog.LevelWarn, "Menu cache read failed", logfields.Error(err))
	}
	p.recorder.IncCacheMiss()

	if data, err := p.fetchChain(ctx); err == nil {
		return data
	}

	p.recorder.IncFallback()
	slog.Warn("All menu sources failed, serving built-in fallback")
	return menu.Fallback()
}

// Refresh bypasses the cache and runs the fetch chain, repopulating the
// cache on success. The daemon calls this on a schedule; callers wanting the
// silent-degradation contract use GetMenuData instead.
func (p *Provider) Refresh(ctx context.Context) (menu.MenuData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fetchChain(ctx)
}

// fetchChain walks the sources in order, retrying transient failures per the
// policy, and writes the first successful result to the cache.
func (p *Provider) fetchChain(ctx context.Context) (menu.MenuData, error) {
	var lastErr error
	for _, src := range p.sources {
		data, err := p.fetchWithRetry(ctx, src)
		if err != nil {
			lastErr = err
			slog.LogAttrs(ctx, slog.LevelWarn, "Menu source failed, trying next strategy",
				logfields.Source(src.Name()),
				logfields.Category(string(errors.GetCategory(err))),
				logfields.Error(err))
			continue
		}
		if err := p.cache.Write(ctx, data); err != nil {
			// A dead cache only costs the next call a refetch.
			slog.LogAttrs(ctx, slog.LevelWarn, "Menu cache write failed", logfields.Error(err))
		}
		return data, nil
	}
	if lastErr == nil {
		lastErr = errors.New(errors.CategoryRetrieval, errors.SeverityWarning, "no menu sources configured")
	}
	return menu.MenuData{}, lastErr
}

// fetchWithRetry runs one source, retrying only retryable (transport-level)
// failures. Parse and validation errors fail fast: the same text will not
// parse differently on a second attempt.
func (p *Provider) fetchWithRetry(ctx context.Context, src store.Source) (menu.MenuData, error) {
	var lastErr error
	for attempt := 0; attempt <= p.policy.MaxRetries; attempt++ {
		if attempt > 0 {
			p.sleep(ctx, p.policy.Delay(attempt))
			if ctx.Err() != nil {
				return menu.MenuData{}, errors.Wrap(ctx.Err(), errors.CategoryRetrieval, errors.SeverityWarning, "menu fetch canceled")
			}
		}

		start := time.Now()
		data, err := src.Fetch(ctx)
		p.recorder.ObserveFetchDuration(src.Name(), time.Since(start))
		if err == nil {
			p.recorder.IncFetchResult(src.Name(), metrics.ResultSuccess)
			return data, nil
		}
		p.recorder.IncFetchResult(src.Name(), metrics.ResultFailure)
		lastErr = err
		if !errors.IsRetryable(err) {
			break
		}
	}
	return menu.MenuData{}, lastErr
}

// Upload serializes the menu back to the document store. It reports success
// as a flag rather than an error so the caller can surface it to an
// administrator; the local cache is invalidated on success only.
func (p *Provider) Upload(ctx context.Context, data menu.MenuData) bool {
	if p.uploader == nil {
		slog.Error("Menu upload requested but no uploader is configured")
		return false
	}
	if err := data.Validate(); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "Refusing to upload invalid menu data", logfields.Error(err))
		p.recorder.IncUploadResult(metrics.ResultFailure)
		return false
	}

	if err := p.uploader.Upload(ctx, data); err != nil {
		slog.LogAttrs(ctx, slog.LevelError, "Menu upload failed", logfields.Error(err))
		p.recorder.IncUploadResult(metrics.ResultFailure)
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.cache.Evict(ctx); err != nil {
		slog.LogAttrs(ctx, slog.LevelWarn, "Cache eviction after upload failed", logfields.Error(err))
	}
	p.recorder.IncUploadResult(metrics.ResultSuccess)
	slog.Info("Menu uploaded and cache invalidated")
	return true
}

// Invalidate evicts the local cache slot. The daemon calls this when an
// invalidation event arrives from another replica.
func (p *Provider) Invalidate(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Evict(ctx)
}
