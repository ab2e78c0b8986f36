package main

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"git.home.luguber.info/inful/megamenu/internal/cache"
	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/daemon"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/metrics"
	"git.home.luguber.info/inful/megamenu/internal/provider"
	"git.home.luguber.info/inful/megamenu/internal/retry"
	"git.home.luguber.info/inful/megamenu/internal/store"
)

// app wires config into a provider and lets the config watcher swap in a
// rebuilt provider without restarting the HTTP server or scheduler. It
// implements server.MenuService, daemon.Refresher, and daemon.Invalidator by
// delegating to the current provider.
type app struct {
	mu       sync.Mutex
	recorder metrics.Recorder
	current  atomic.Pointer[provider.Provider]
	closer   io.Closer
	bus      invalidationPublisher
}

// invalidationPublisher is the slice of the invalidation bus the app needs;
// satisfied by *daemon.InvalidationBus.
type invalidationPublisher interface {
	Publish(reason string) error
}

// buildApp constructs the provider from configuration. recorder may be nil.
func buildApp(cfg *config.Config, recorder metrics.Recorder) (*app, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	a := &app{recorder: recorder}
	if err := a.rebuild(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// rebuild constructs sources, cache, and provider for the given config and
// swaps them in, closing any previous persistent cache.
func (a *app) rebuild(cfg *config.Config) error {
	sources, err := store.BuildSources(cfg, nil)
	if err != nil {
		return err
	}

	var c cache.Cache
	var closer io.Closer
	switch cfg.Cache.Backend {
	case config.CacheSQLite:
		sc, err := cache.NewSQLite(cfg.Cache.Path, cfg.Cache.TTLDuration(), nil)
		if err != nil {
			return err
		}
		c, closer = sc, sc
	default:
		c = cache.NewMemory(cfg.Cache.TTLDuration(), nil)
	}

	client := store.NewClient(nil, cfg.Store.BaseURL, cfg.Store.AuthToken)
	uploader := store.NewUploader(client, cfg.Store)

	policy := retry.NewPolicy(
		retry.BackoffMode(cfg.Retry.Mode),
		cfg.Retry.InitialDuration(),
		cfg.Retry.MaxDuration(),
		cfg.Retry.MaxRetries,
	)

	p := provider.New(sources, c,
		provider.WithUploader(uploader),
		provider.WithRetryPolicy(policy),
		provider.WithRecorder(a.recorder),
	)

	a.mu.Lock()
	oldCloser := a.closer
	a.closer = closer
	a.current.Store(p)
	a.mu.Unlock()

	if oldCloser != nil {
		if err := oldCloser.Close(); err != nil {
			slog.Warn("Failed to close previous cache backend", "error", err)
		}
	}
	return nil
}

// reload is invoked by the config watcher with a freshly validated config.
func (a *app) reload(cfg *config.Config) error {
	if err := a.rebuild(cfg); err != nil {
		return err
	}
	slog.Info("Configuration reloaded")
	return nil
}

func (a *app) setBus(bus *daemon.InvalidationBus) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bus = bus
}

// GetMenuData implements server.MenuService.
func (a *app) GetMenuData(ctx context.Context) menu.MenuData {
	return a.current.Load().GetMenuData(ctx)
}

// Upload implements server.MenuService. On success an invalidation event is
// broadcast to other replicas, unless the uploaded menu matches what was
// already being served, in which case their caches are still correct.
func (a *app) Upload(ctx context.Context, data menu.MenuData) bool {
	before := a.current.Load().GetMenuData(ctx)
	ok := a.current.Load().Upload(ctx, data)
	if ok && !data.Equal(&before) {
		a.mu.Lock()
		bus := a.bus
		a.mu.Unlock()
		if bus != nil {
			if err := bus.Publish("upload"); err != nil {
				slog.Warn("Failed to broadcast invalidation event", "error", err)
			}
		}
	}
	return ok
}

// Refresh implements daemon.Refresher.
func (a *app) Refresh(ctx context.Context) (menu.MenuData, error) {
	return a.current.Load().Refresh(ctx)
}

// Invalidate implements daemon.Invalidator.
func (a *app) Invalidate(ctx context.Context) error {
	return a.current.Load().Invalidate(ctx)
}

func (a *app) close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			slog.Warn("Failed to close cache backend", "error", err)
		}
		a.closer = nil
	}
}
