package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidshare/vidshare/internal/api"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/core/service"
	"github.com/vidshare/vidshare/internal/infrastructure/config"
	"github.com/vidshare/vidshare/internal/infrastructure/db/redis"
	"github.com/vidshare/vidshare/internal/infrastructure/rest"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.Context())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), ctx, cfg)
		},
	}
}

func runServe(parent context.Context, cmdCtx *commandContext, cfg *config.Config) error {
	log := cmdCtx.logger(os.Stdout)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := be.close(closeCtx); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to Redis")

	writer, err := newVideoWriter(cfg, be)
	if err != nil {
		log.Fatal().Err(err).Str("metadata_writer", cfg.Backend.MetadataWriter).Msg("metadata writer not configured")
	}

	sessions := redis.NewSessionStore(rdb)
	profiles := service.NewProfileService(be.profiles, cfg.RetryPolicy(), log)
	auth := service.NewAuthService(be.users, profiles, sessions, service.AuthOptions{
		JWTSecret:           cfg.Auth.JWTSecret,
		TokenTTL:            cfg.Auth.TokenTTL,
		RequireConfirmation: cfg.Auth.RequireEmailConfirmation,
	}, log)

	checks := be.checks
	checks["redis"] = func(ctx context.Context) error { return redis.Ping(ctx, rdb) }

	e := api.NewRouter(api.Dependencies{
		Auth:           auth,
		Profiles:       profiles,
		Sessions:       sessions,
		Uploads:        service.NewUploadService(be.objects, writer, cfg.Upload.MaxBytes, log),
		Catalog:        service.NewCatalogService(be.videos, be.views, profiles, log),
		Dashboard:      service.NewDashboardService(be.videos, be.views),
		JWTSecret:      cfg.Auth.JWTSecret,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Objects:        be.objects,
		Bucket:         be.objects.Bucket(),
		HealthChecks:   checks,
		Log:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.Store).
			Str("metadata_writer", cfg.Backend.MetadataWriter).
			Msg("HTTP server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func newVideoWriter(cfg *config.Config, be *backend) (ports.VideoWriter, error) {
	if cfg.Backend.MetadataWriter == config.WriterREST {
		return rest.NewVideoWriter(rest.Config{
			BaseURL:        cfg.Backend.URL,
			ServiceRoleKey: cfg.Backend.ServiceRoleKey,
			Timeout:        cfg.Backend.Timeout,
		})
	}
	return service.NewRepositoryWriter(be.videos), nil
}
