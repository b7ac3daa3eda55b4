package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/dealdesk/internal/auth"
	catalogStore "github.com/MrJamesThe3rd/dealdesk/internal/catalog/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/config"
	"github.com/MrJamesThe3rd/dealdesk/internal/database"
	dealdeskHttp "github.com/MrJamesThe3rd/dealdesk/internal/http"
	opportunityHandler "github.com/MrJamesThe3rd/dealdesk/internal/http/opportunity"
	"github.com/MrJamesThe3rd/dealdesk/internal/observability"
	"github.com/MrJamesThe3rd/dealdesk/internal/opportunity"
	opportunityStore "github.com/MrJamesThe3rd/dealdesk/internal/opportunity/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/pipeline"
	pipelineStore "github.com/MrJamesThe3rd/dealdesk/internal/pipeline/store"
	"github.com/MrJamesThe3rd/dealdesk/internal/resilience"
	"github.com/MrJamesThe3rd/dealdesk/internal/sideeffect/client"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx := context.Background()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTracer(ctx, cfg.Telemetry.Endpoint, cfg.App.Name)
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}
		defer func() { _ = shutdown(context.Background()) }()
	}

	metrics := observability.NewMetrics()

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, logger); err != nil {
		return err
	}

	stages, err := directory(cfg, db, metrics)
	if err != nil {
		return err
	}
	defer stages.Close()

	var (
		dispatcher         = client.NewDispatcher(collaborators(cfg), metrics, logger)
		opportunityService = opportunity.NewService(
			opportunityStore.New(db),
			stages,
			catalogStore.New(db),
			dispatcher,
			logger,
			opportunity.WithMetrics(metrics),
		)
	)

	router := dealdeskHttp.New(opportunityHandler.NewHandler(opportunityService, logger), dealdeskHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret),
		Health:         db,
		Metrics:        metrics,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, `{"error":"request timed out"}`),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := dispatcher.Wait(shutdownCtx); err != nil {
		logger.Warn("side effects still pending at shutdown", zap.Error(err))
	}

	return nil
}

// directory serves stages from PIPELINE_FILE when set and from the database
// otherwise, behind a read-through cache.
func directory(cfg *config.Config, db *sql.DB, metrics *observability.Metrics) (*pipeline.CachedDirectory, error) {
	var next pipeline.Directory = pipelineStore.New(db)

	if cfg.Pipeline.File != "" {
		file, err := pipeline.LoadFile(cfg.Pipeline.File)
		if err != nil {
			return nil, err
		}

		next = file
	}

	return pipeline.NewCachedDirectory(next, cfg.Pipeline.CacheTTL, metrics), nil
}

func collaborators(cfg *config.Config) client.Settings {
	c := cfg.Collaborators

	return client.Settings{
		AuditURL:     c.AuditURL,
		ActivityURL:  c.ActivityURL,
		Token:        c.Token,
		Timeout:      c.Timeout,
		Retry:        resilience.Config{MaxRetries: c.MaxRetries, InitialBackoff: c.InitialBackoff},
		FlushTimeout: c.FlushTimeout,
	}
}
