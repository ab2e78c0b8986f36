package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/megamenu/internal/config"
	"git.home.luguber.info/inful/megamenu/internal/daemon"
	"git.home.luguber.info/inful/megamenu/internal/menu"
	"git.home.luguber.info/inful/megamenu/internal/metrics"
	"git.home.luguber.info/inful/megamenu/internal/server"
	"git.home.luguber.info/inful/megamenu/internal/version"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Fetch struct {
		Pretty bool `help:"Indent the JSON output"`
	} `cmd:"" help:"Resolve the menu through the acquisition chain and print it as JSON"`

	Serve struct {
	} `cmd:"" help:"Serve the menu over HTTP with scheduled cache refresh"`

	Upload struct {
		File string `arg:"" help:"JSON file holding the menu to upload"`
	} `cmd:"" help:"Upload a menu to the document store (administrative)"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct {
	} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	switch ctx.Command() {
	case "fetch":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		app, err := buildApp(cfg, nil)
		if err != nil {
			slog.Error("Failed to build menu provider", "error", err)
			os.Exit(1)
		}
		defer app.close()
		runFetch(app)

	case "serve":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}

	case "upload <file>":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		app, err := buildApp(cfg, nil)
		if err != nil {
			slog.Error("Failed to build menu provider", "error", err)
			os.Exit(1)
		}
		defer app.close()
		if !runUpload(app, CLI.Upload.File) {
			os.Exit(1)
		}

	case "init":
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", CLI.Config)

	case "version":
		fmt.Printf("megamenu %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", ctx.Command())
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	level := parseLogLevel(cfg.Logging.Level)
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runFetch(app *app) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	data := app.GetMenuData(ctx)

	enc := json.NewEncoder(os.Stdout)
	if CLI.Fetch.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		slog.Error("Failed to encode menu", "error", err)
		os.Exit(1)
	}
}

func runUpload(app *app, file string) bool {
	raw, err := os.ReadFile(file) // #nosec G304 -- path comes from the CLI argument
	if err != nil {
		slog.Error("Failed to read menu file", "path", file, "error", err)
		return false
	}
	var data menu.MenuData
	if err := json.Unmarshal(raw, &data); err != nil {
		slog.Error("Menu file is not valid JSON", "path", file, "error", err)
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if ok := app.Upload(ctx, data); !ok {
		slog.Error("Menu upload failed")
		return false
	}
	slog.Info("Menu uploaded")
	return true
}

func runServe(cfg *config.Config) error {
	registry := prom.NewRegistry()
	app, err := buildApp(cfg, metrics.NewPrometheusRecorder(registry))
	if err != nil {
		return err
	}
	defer app.close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, app, registry)

	scheduler, err := daemon.NewScheduler(app)
	if err != nil {
		return err
	}
	if _, err := scheduler.ScheduleRefresh(cfg.Daemon.RefreshDuration()); err != nil {
		return err
	}

	if cfg.Daemon.NATS.Enabled {
		bus, err := daemon.NewInvalidationBus(cfg.Daemon.NATS, app)
		if err != nil {
			return err
		}
		defer bus.Close()
		app.setBus(bus)
	}

	if cfg.Daemon.WatchConfig {
		watcher, err := daemon.NewConfigWatcher(CLI.Config, func(_ context.Context) error {
			newCfg, err := config.Load(CLI.Config)
			if err != nil {
				return err
			}
			return app.reload(newCfg)
		})
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			slog.Error("Scheduler shutdown failed", "error", err)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
