// Package service answers cinema questions: it resolves the cinema, the
// movies and the days a question refers to, runs the matching queries and
// renders the answer as display blocks.
package service

import (
	"context"
	"time"

	"github.com/iliyamo/showtime-assistant/internal/intent"
	"github.com/iliyamo/showtime-assistant/internal/model"
	"github.com/iliyamo/showtime-assistant/internal/queue"
	"github.com/iliyamo/showtime-assistant/internal/repository"
)

// CinemaStore is the read side of the cinemas table.
type CinemaStore interface {
	GetByID(ctx context.Context, id int64) (*model.Cinema, error)
	ListAll(ctx context.Context) ([]*model.Cinema, error)
}

// MovieStore is the read side of the movie catalog.
type MovieStore interface {
	GetByID(ctx context.Context, id int64) (*model.Movie, error)
	ListNames(ctx context.Context) ([]model.MovieRef, error)
	ListProgrammedNames(ctx context.Context, cinemaID int64, since time.Time) ([]model.MovieRef, error)
}

// ScheduleStore runs schedule lookups.
type ScheduleStore interface {
	Find(ctx context.Context, f repository.ScheduleFilter) ([]model.ScheduleWeek, error)
}

// PriceStore reads ticket prices.
type PriceStore interface {
	ListByCinema(ctx context.Context, cinemaID int64) ([]model.TicketPrice, error)
}

// Classifier turns a raw question into a Classification.
type Classifier interface {
	Classify(ctx context.Context, question string) (intent.Classification, error)
}

// EventPublisher receives one event per answered question.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.QueryResolvedEvent) error
}
