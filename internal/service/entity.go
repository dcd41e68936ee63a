package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/showtime-assistant/internal/matcher"
)

// EntityResolver matches free-text movie and cinema names against the
// catalog snapshots.
type EntityResolver struct {
	catalog *Catalog
	matcher *matcher.Matcher
}

// NewEntityResolver returns an EntityResolver.
func NewEntityResolver(catalog *Catalog, m *matcher.Matcher) *EntityResolver {
	return &EntityResolver{catalog: catalog, matcher: m}
}

// ResolveMovie matches rawName against the movies programmed at
// scopeCinemaID, or the whole catalog when it is zero. ok is false when the
// name is ambiguous or unknown.
func (r *EntityResolver) ResolveMovie(ctx context.Context, rawName string, scopeCinemaID int64) (matcher.Match, bool, error) {
	candidates, err := r.catalog.MovieCandidates(ctx, scopeCinemaID)
	if err != nil {
		return matcher.Match{}, false, fmt.Errorf("%w: load movie names: %w", ErrDataAccess, err)
	}
	return first(r.matcher.Match(rawName, candidates))
}

// ResolveCinema matches rawName against all cinema names.
func (r *EntityResolver) ResolveCinema(ctx context.Context, rawName string) (matcher.Match, bool, error) {
	candidates, err := r.catalog.CinemaCandidates(ctx)
	if err != nil {
		return matcher.Match{}, false, fmt.Errorf("%w: load cinema names: %w", ErrDataAccess, err)
	}
	return first(r.matcher.Match(rawName, candidates))
}

func first(ms []matcher.Match) (matcher.Match, bool, error) {
	if len(ms) == 0 {
		return matcher.Match{}, false, nil
	}
	return ms[0], true, nil
}
