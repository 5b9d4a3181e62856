package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-extras/cobraflags"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/iliyamo/plant-catalog/internal/config"
	"github.com/iliyamo/plant-catalog/internal/database"
	"github.com/iliyamo/plant-catalog/internal/handler"
	"github.com/iliyamo/plant-catalog/internal/middleware"
	"github.com/iliyamo/plant-catalog/internal/repository"
	"github.com/iliyamo/plant-catalog/internal/router"
	"github.com/iliyamo/plant-catalog/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	flags := dbFlags()
	flags[portFlag] = &cobraflags.StringFlag{
		Name:  portFlag,
		Value: "",
		Usage: "HTTP port to listen on; overrides APP_PORT",
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the plant catalog HTTP API",
		Long: `Run the plant catalog HTTP API.

The plants table is created on startup when missing. Redis caching and rate
limiting are enabled when REDIS_ADDR or REDIS_HOST is set; lifecycle events
are published when RABBITMQ_URL is set.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags)
		},
	}
	cobraflags.RegisterMap(cmd, flags)
	return cmd
}

func runServe(ctx context.Context, flags map[string]cobraflags.Flag) error {
	cfg, log, err := loadConfig(flags)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		log.Error("database unavailable", "error", err)
		return err
	}
	defer func() { _ = database.Close(db) }()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	var mw []echo.MiddlewareFunc
	if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
		defer func() { _ = rdb.Close() }()
		log.Info("redis connected; cache and rate limit active", "addr", cfg.Redis.Addr)
		mw = append(mw,
			middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
			middleware.NewRedisCache(cfg.Cache, rdb, log),
		)
	} else if cfg.Redis.Addr != "" {
		log.Warn("redis unreachable; cache and rate limit disabled", "addr", cfg.Redis.Addr)
	}

	var events handler.EventPublisher
	if cfg.Events.Enabled {
		events = service.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log)
	}

	plants := handler.NewPlantHandler(repository.NewPlantRepo(db), events, log)
	e := router.New(log, handler.Health(sqlDB), plants, mw...)

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr(), "env", cfg.Env, "db", cfg.DB.Driver)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
