// Package main is the entry point for the FundFlow projection service.
// It serves the fund catalog, portfolio management and simulation APIs and
// runs database cleanup, maintenance and backup jobs in the background.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/atreyakamat/solara-mf/internal/config"
	"github.com/atreyakamat/solara-mf/internal/di"
	"github.com/atreyakamat/solara-mf/internal/server"
	"github.com/atreyakamat/solara-mf/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config failed, so log with defaults
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("FundFlow stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server stopped")
}

// run wires dependencies, serves HTTP and blocks until SIGINT or SIGTERM
func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().
		Str("data_dir", cfg.DataDir).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting FundFlow")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to wire dependencies: %w", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database")
		}
	}()

	seeded, err := container.FundSeeder.SeedIfEmpty(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed fund catalog: %w", err)
	}
	if seeded > 0 {
		log.Info().Int("funds", seeded).Msg("Fund catalog seeded")
	}

	srv := server.New(server.Config{
		Log:       log,
		Container: container,
		Jobs:      jobs,
		DataDir:   cfg.DataDir,
		Port:      cfg.Port,
		DevMode:   cfg.DevMode,
	})

	container.Scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		container.Scheduler.Stop()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
