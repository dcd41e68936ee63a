// Package app wires the assistant from configuration.  The server and the
// operator CLI share it so both answer questions the same way.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/iliyamo/showtime-assistant/internal/config"
	"github.com/iliyamo/showtime-assistant/internal/database"
	"github.com/iliyamo/showtime-assistant/internal/format"
	"github.com/iliyamo/showtime-assistant/internal/intent"
	"github.com/iliyamo/showtime-assistant/internal/matcher"
	"github.com/iliyamo/showtime-assistant/internal/queue"
	"github.com/iliyamo/showtime-assistant/internal/repository"
	"github.com/iliyamo/showtime-assistant/internal/service"
	"github.com/iliyamo/showtime-assistant/internal/temporal"
)

// App holds the long-lived collaborators.
type App struct {
	Config    config.Config
	Log       *slog.Logger
	DB        *sql.DB
	Resolver  *temporal.Resolver
	Catalog   *service.Catalog
	Assistant *service.Assistant
}

// Open connects to MySQL and builds the App on top of it.
func Open(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a, err := Build(ctx, cfg, db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// Build wires the assistant over db.  Without a Gemini key the assistant
// still serves the structured routes; free-text questions get the
// "not understood" reply.
func Build(ctx context.Context, cfg config.Config, db *sql.DB, logger *slog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load zone %q: %w", cfg.TimeZone, err)
	}
	resolver := temporal.NewResolver(loc)
	today := resolver.Today

	movies := repository.NewMovieRepo(db)
	cinemas := repository.NewCinemaRepo(db)
	catalog := service.NewCatalog(movies, cinemas, today, cfg.CatalogCacheSize, cfg.CatalogCacheTTL)

	deps := service.Deps{
		Cinemas:     cinemas,
		Movies:      movies,
		Schedules:   repository.NewScheduleRepo(db, today),
		Prices:      repository.NewTicketPriceRepo(db),
		Catalog:     catalog,
		Matcher:     matcher.New(),
		Resolver:    resolver,
		Formatter:   format.NewFormatter(today),
		FallbackURL: cfg.FallbackURL,
		Concurrency: cfg.ResolveConcurrency,
		Logger:      logger,
	}

	if cfg.GeminiAPIKey != "" {
		gen, err := intent.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		deps.Classifier = NewClassifier(cfg, gen, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set; free-text questions are disabled")
	}

	if cfg.EventsEnabled {
		deps.Events = queue.NewPublisher(cfg.RabbitMQURL, logger.With("component", "publisher"))
	}

	return &App{
		Config:    cfg,
		Log:       logger,
		DB:        db,
		Resolver:  resolver,
		Catalog:   catalog,
		Assistant: service.NewAssistant(deps),
	}, nil
}

// NewClassifier applies the LLM retry and rate settings to gen.
func NewClassifier(cfg config.Config, gen intent.Generator, logger *slog.Logger) *intent.Classifier {
	opts := []intent.ClassifierOption{
		intent.WithRetries(cfg.LLMMaxRetries, cfg.LLMBackoff),
		intent.WithLogger(logger.With("component", "classifier")),
	}
	if cfg.LLMRPS > 0 {
		opts = append(opts, intent.WithLimiter(rate.NewLimiter(rate.Limit(cfg.LLMRPS), cfg.LLMRPS)))
	}
	return intent.NewClassifier(gen, opts...)
}

// Today is the current civil day in the cinema zone.
func (a *App) Today() time.Time {
	return a.Resolver.Today()
}

// Close releases the database pool.
func (a *App) Close() error {
	return a.DB.Close()
}
