// Package queue defines message payloads exchanged over the message broker
// and the publisher/consumer pair that moves them.
package queue

import (
    "time"

    "github.com/google/uuid"
)

// QueryResolvedQueue is the durable queue query events are published to.
const QueryResolvedQueue = "query.resolved"

// QueryResolvedEvent is published after every answered question. It carries
// enough information for downstream consumers to log or aggregate demand
// (which movies, which days, how often nothing was found) without querying
// the primary database.
type QueryResolvedEvent struct {
    ID          string   `json:"id"`
    CinemaID    int64    `json:"cinema_id"`
    CinemaName  string   `json:"cinema_name"`
    Intent      string   `json:"intent"`
    Movies      []string `json:"movies"`
    Unmatched   []string `json:"unmatched,omitempty"`
    Days        []string `json:"days,omitempty"`
    Status      string   `json:"status,omitempty"`
    Blocks      int      `json:"blocks"`
    NotFound    bool     `json:"not_found"`
    DayFallback bool     `json:"day_fallback,omitempty"`
    ResolvedAt  string   `json:"resolved_at"`
}

// NewQueryResolvedEvent stamps a fresh id and the resolution time (RFC 3339).
func NewQueryResolvedEvent(at time.Time) QueryResolvedEvent {
    return QueryResolvedEvent{
        ID:         uuid.NewString(),
        ResolvedAt: at.Format(time.RFC3339),
    }
}
