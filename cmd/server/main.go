package main // HTTP entry point of the showtime assistant

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // cinema zones must load on minimal images

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/showtime-assistant/internal/app"
	"github.com/iliyamo/showtime-assistant/internal/config"
	"github.com/iliyamo/showtime-assistant/internal/handler"
	"github.com/iliyamo/showtime-assistant/internal/middleware"
	"github.com/iliyamo/showtime-assistant/internal/queue"
	"github.com/iliyamo/showtime-assistant/internal/router"
	"github.com/iliyamo/showtime-assistant/internal/scheduler"
)

func main() {
	cfg := config.Load()
	log := cfg.NewLogger(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}
	cacheCfg := config.LoadCacheConfig()
	flush := func(ctx context.Context) (int, error) {
		return middleware.FlushResponseCache(ctx, rdb, cacheCfg.Prefix)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	router.RegisterRoutes(e, a.DB)
	router.RegisterAssistant(e,
		&handler.AssistantHandler{Assistant: a.Assistant, Log: log.With("component", "assistant")},
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log.With("component", "ratelimit")),
		middleware.NewResponseCache(cacheCfg, rdb, a.Today),
	)
	router.RegisterAdmin(e, &handler.AdminHandler{
		Catalog:        a.Catalog,
		FlushResponses: flush,
		Log:            log.With("component", "admin"),
	}, cfg.JWTSecret)

	sched := scheduler.New(a.Resolver.Location(), scheduler.DefaultSpec, log,
		scheduler.Job{Name: "purge-catalog", Run: func(context.Context) error { a.Catalog.Purge(); return nil }},
		scheduler.Job{Name: "flush-responses", Run: func(ctx context.Context) error { _, err := flush(ctx); return err }},
	)
	if err := sched.Start(ctx); err != nil {
		log.Error("scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	if cfg.EventsEnabled {
		consumer := queue.NewConsumer(cfg.RabbitMQURL, cfg.QueryLogDir, log.With("component", "consumer"))
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("query log consumer stopped", "error", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "zone", cfg.TimeZone)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
