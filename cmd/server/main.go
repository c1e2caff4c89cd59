package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"    // .env loading for local runs
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/restaurant-booking/internal/app"
	"github.com/iliyamo/restaurant-booking/internal/config"     // Internal config loader
	"github.com/iliyamo/restaurant-booking/internal/handler"    // HTTP handlers
	"github.com/iliyamo/restaurant-booking/internal/logging"    // slog setup
	"github.com/iliyamo/restaurant-booking/internal/middleware" // rate limiter
	"github.com/iliyamo/restaurant-booking/internal/queue"      // migration event consumer
	"github.com/iliyamo/restaurant-booking/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // a missing .env is fine outside development

	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if cfg.MigrateOnBoot {
		migrated := a.Migrator.MaybeRun(ctx, "")
		log.Info("boot migration check done", "migrated", migrated)
	}

	if cfg.RabbitURL != "" {
		go func() {
			if err := queue.StartMigrationConsumer(ctx, cfg.RabbitURL, "logs", log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("migration consumer stopped", "error", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), a.Redis)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg), cfg.JWTSecret, limiter)
	router.RegisterMigration(e, handler.NewMigrationHandler(a.Migrator), cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}
