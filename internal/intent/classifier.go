package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrClassification is returned once every attempt to classify a question
// has failed.
var ErrClassification = errors.New("classification failed")

// Generator is the language model behind the classifier.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

const promptTemplate = `Classifique a pergunta de um cliente de cinema.
Responda somente com um objeto JSON com as chaves:
  "intent": um de movie_showtimes, movie_details, now_showing, coming_soon, ticket_prices, cinema_info;
  "time": hoje, amanha, semana, fim_de_semana, um dia da semana, dd/mm, dd/mm/aaaa, um dia do mes, ou null;
  "movie": nome do filme como escrito pelo cliente (varios separados por virgula), ou null;
  "status": em cartaz, em breve, pre venda, ou null.

Pergunta: {{question}}`

// BuildPrompt renders the classification prompt for a question.
func BuildPrompt(question string) string {
	return strings.Replace(promptTemplate, "{{question}}", strings.TrimSpace(question), 1)
}

// Classifier asks a Generator to classify questions, spacing calls with a
// token-bucket limiter and retrying failures with exponential backoff.
type Classifier struct {
	gen        Generator
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	log        *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithLimiter sets the request limiter. The default does not limit.
func WithLimiter(l *rate.Limiter) ClassifierOption {
	return func(c *Classifier) { c.limiter = l }
}

// WithRetries sets how many times a failed call is retried and the first
// backoff delay, which doubles on each retry.
func WithRetries(n int, backoff time.Duration) ClassifierOption {
	return func(c *Classifier) {
		if n >= 0 {
			c.maxRetries = n
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// WithSleep replaces the backoff wait, mainly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) ClassifierOption {
	return func(c *Classifier) { c.sleep = sleep }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ClassifierOption {
	return func(c *Classifier) { c.log = l }
}

// NewClassifier returns a Classifier with 3 retries starting at 500ms.
func NewClassifier(gen Generator, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		gen:        gen,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		sleep:      sleepCtx,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the classification of question. Transport errors and
// unreadable replies are retried; after the last attempt the error wraps
// ErrClassification.
func (c *Classifier) Classify(ctx context.Context, question string) (Classification, error) {
	prompt := BuildPrompt(question)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff << (attempt - 1)
			c.log.Warn("retrying classification", "attempt", attempt, "delay", delay, "error", lastErr)
			if err := c.sleep(ctx, delay); err != nil {
				return Classification{}, fmt.Errorf("%w: %w", ErrClassification, err)
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return Classification{}, fmt.Errorf("%w: %w", ErrClassification, err)
		}

		out, err := c.gen.Generate(ctx, prompt)
		if err == nil {
			cls, perr := ParseResponse(out)
			if perr == nil {
				return cls, nil
			}
			err = perr
		}
		lastErr = err
	}
	c.log.Error("classification failed", "attempts", c.maxRetries+1, "error", lastErr)
	return Classification{}, fmt.Errorf("%w after %d attempts: %w", ErrClassification, c.maxRetries+1, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
