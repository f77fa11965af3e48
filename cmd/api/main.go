// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adiadia/meetfit/internal/config"
	"github.com/adiadia/meetfit/internal/events"
	"github.com/adiadia/meetfit/internal/logging"
	"github.com/adiadia/meetfit/internal/persistence/postgres"
	"github.com/adiadia/meetfit/internal/repository"
	httptransport "github.com/adiadia/meetfit/internal/transport/http"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := logging.NewLogger(cfg.Env, "api")

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, pool, logger); err != nil {
			logger.Error("schema bootstrap failed", "error", err)
			os.Exit(1)
		}
	} else if err := postgres.SchemaReady(ctx, pool); err != nil {
		logger.Error("schema not ready", "error", err)
		os.Exit(1)
	}

	profileRepo := repository.NewProfileRepository(pool, logger)
	eventRepo := repository.NewEventRepository(pool, logger)

	var broadcast httptransport.Broadcaster = &events.NoopPublisher{}
	if cfg.NATSURL != "" {
		publisher, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			logger.Error("broadcast bus connect failed", "url", cfg.NATSURL, "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		broadcast = publisher
		logger.Info("broadcast bus connected", "url", cfg.NATSURL)
	} else {
		logger.Info("NATS_URL not set, broadcasts disabled")
	}

	handler := httptransport.NewRouter(httptransport.Deps{
		ProfileRepo: profileRepo,
		EventRepo:   eventRepo,
		Broadcast:   broadcast,
		Health:      postgres.NewPoolHealthChecker(pool),
		Logger:      logger,
		Version:     Version,
		Commit:      Commit,
		BuildDate:   BuildDate,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("api listening",
			"addr", cfg.HTTPAddr,
			"version", Version,
			"commit", Commit,
			"build_date", BuildDate,
		)

		if err := srv.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
}
