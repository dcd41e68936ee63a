package service

import (
	"context"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/showtime-assistant/internal/matcher"
	"github.com/iliyamo/showtime-assistant/internal/model"
)

const cinemasKey = "cinemas"

// fillTimeout bounds a shared snapshot load.
const fillTimeout = 10 * time.Second

// Catalog caches the name snapshots the matcher works on: the cinema list,
// the full movie catalog and, per cinema, the movies programmed there from
// today on. Entries expire after a TTL and are purged at midnight.
type Catalog struct {
	movies  MovieStore
	cinemas CinemaStore
	today   func() time.Time
	cache   *expirable.LRU[string, []matcher.Candidate]
	fills   singleflight.Group
}

// NewCatalog returns a Catalog holding at most size snapshots for ttl.
func NewCatalog(movies MovieStore, cinemas CinemaStore, today func() time.Time, size int, ttl time.Duration) *Catalog {
	if size <= 0 {
		size = 256
	}
	return &Catalog{
		movies:  movies,
		cinemas: cinemas,
		today:   today,
		cache:   expirable.NewLRU[string, []matcher.Candidate](size, nil, ttl),
	}
}

// MovieCandidates returns the movies programmed at cinemaID, or the whole
// catalog when cinemaID is zero.
func (c *Catalog) MovieCandidates(ctx context.Context, cinemaID int64) ([]matcher.Candidate, error) {
	key := "movies:all"
	if cinemaID > 0 {
		key = "movies:" + strconv.FormatInt(cinemaID, 10)
	}
	return c.load(ctx, key, func(ctx context.Context) ([]matcher.Candidate, error) {
		var (
			refs []model.MovieRef
			err  error
		)
		if cinemaID > 0 {
			refs, err = c.movies.ListProgrammedNames(ctx, cinemaID, c.today())
		} else {
			refs, err = c.movies.ListNames(ctx)
		}
		if err != nil {
			return nil, err
		}
		out := make([]matcher.Candidate, 0, len(refs))
		for _, r := range refs {
			out = append(out, matcher.Candidate{ID: r.ID, Name: r.Name})
		}
		return out, nil
	})
}

// CinemaCandidates returns every cinema as a match candidate.
func (c *Catalog) CinemaCandidates(ctx context.Context) ([]matcher.Candidate, error) {
	return c.load(ctx, cinemasKey, func(ctx context.Context) ([]matcher.Candidate, error) {
		all, err := c.cinemas.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]matcher.Candidate, 0, len(all))
		for _, cin := range all {
			out = append(out, matcher.Candidate{ID: cin.ID, Name: cin.Name})
		}
		return out, nil
	})
}

// Purge drops every snapshot.
func (c *Catalog) Purge() {
	c.cache.Purge()
}

// Len reports how many snapshots are cached.
func (c *Catalog) Len() int {
	return c.cache.Len()
}

// load returns the cached snapshot for key or fills it. Concurrent misses
// on the same key share one store call. The fill ignores the caller's
// cancellation and is bounded by fillTimeout; a waiter whose own ctx ends
// returns early.
func (c *Catalog) load(ctx context.Context, key string, fill func(context.Context) ([]matcher.Candidate, error)) ([]matcher.Candidate, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, nil
	}
	detached := context.WithoutCancel(ctx)
	ch := c.fills.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(detached, fillTimeout)
		defer cancel()
		v, err := fill(fctx)
		if err != nil {
			return nil, err
		}
		c.cache.Add(key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]matcher.Candidate), nil
	}
}
