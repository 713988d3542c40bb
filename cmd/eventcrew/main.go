// Command eventcrew serves the event-planning crew over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/eventcrew/config"
	"github.com/hupe1980/eventcrew/core"
	"github.com/hupe1980/eventcrew/logging"
	"github.com/hupe1980/eventcrew/planner"
	"github.com/hupe1980/eventcrew/server"
	"github.com/hupe1980/eventcrew/tool"
)

func main() {
	configPath := flag.String("config", os.Getenv("EVENTCREW_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "eventcrew: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newArtifactStore(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	factory, err := newModelFactory(cfg.Model)
	if err != nil {
		return err
	}

	tools := []tool.Tool{
		tool.NewSearchTool(func(o *tool.SearchOptions) {
			o.Endpoint = cfg.Search.Endpoint
			o.NumResults = cfg.Search.NumResults
			o.APIKey = cfg.Search.APIKey
		}),
		tool.NewFetchTool(),
	}

	p := planner.New(func(o *planner.Options) {
		o.ModelFactory = factory
		o.ArtifactStore = store
		o.Logger = logger
		o.Tools = tools
		o.MaxModelCalls = cfg.Crew.MaxModelCalls
		o.MaxHistoryMessages = cfg.Crew.MaxHistoryMessages
		o.EnableStreaming = cfg.Crew.Streaming
		o.OnEvent = func(ev core.Event) {
			for _, call := range ev.GetFunctionCalls() {
				logger.Debug("agent.tool.call", "run_id", ev.RunID, "agent", ev.Author, "tool", call.Name)
			}
		}
	})

	srv := server.New(p, store, func(o *server.Options) {
		o.Addr = cfg.Server.Addr
		o.Logger = logger
		o.RunTimeout = cfg.Server.RunTimeout
		o.CORSOrigins = cfg.Server.CORSOrigins
		o.RateLimit = cfg.Server.RateLimit
		o.RateBurst = cfg.Server.RateBurst
	})

	logger.Info("eventcrew.start",
		"addr", cfg.Server.Addr,
		"model_provider", cfg.Model.Provider,
		"artifact_backend", cfg.Artifacts.Backend,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("eventcrew.shutdown.error", "error", err.Error())
		return err
	}

	logger.Info("eventcrew.stopped")

	return nil
}

