package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/showtime-assistant/internal/format"
	"github.com/iliyamo/showtime-assistant/internal/intent"
	"github.com/iliyamo/showtime-assistant/internal/matcher"
	"github.com/iliyamo/showtime-assistant/internal/model"
	"github.com/iliyamo/showtime-assistant/internal/queue"
	"github.com/iliyamo/showtime-assistant/internal/repository"
	"github.com/iliyamo/showtime-assistant/internal/temporal"
)

const publishTimeout = 3 * time.Second

// Request is a classified question scoped to one cinema. CinemaID wins
// over CinemaName when both are set.
type Request struct {
	CinemaID   int64
	CinemaName string
	Intent     intent.Kind
	Time       temporal.Expression
	Movies     []string
	Status     intent.StatusFilter
}

// RequestFrom scopes a classification to a cinema.
func RequestFrom(cinemaID int64, cinemaName string, c intent.Classification) Request {
	return Request{
		CinemaID:   cinemaID,
		CinemaName: cinemaName,
		Intent:     c.Kind,
		Time:       c.Time,
		Movies:     c.Movies,
		Status:     c.Status,
	}
}

// Response is the answer to a Request. Blocks is never empty.
type Response struct {
	Cinema    *model.Cinema
	Intent    intent.Kind
	Blocks    []format.Block
	Matched   []matcher.Match
	Unmatched []string
	Days      []temporal.Resolution
	// NotFound is set when the cinema or every named movie was unknown.
	NotFound bool
	// DayFallback is set when a time was given but could not be resolved,
	// so the whole week was returned.
	DayFallback bool
}

// Text renders the blocks.
func (r Response) Text() string {
	return format.Join(r.Blocks)
}

// Deps are the collaborators of an Assistant. Classifier and Events may be
// nil: Ask then fails and no events are published.
type Deps struct {
	Cinemas     CinemaStore
	Movies      MovieStore
	Schedules   ScheduleStore
	Prices      PriceStore
	Catalog     *Catalog
	Matcher     *matcher.Matcher
	Resolver    *temporal.Resolver
	Formatter   *format.Formatter
	Classifier  Classifier
	Events      EventPublisher
	FallbackURL string
	Concurrency int
	Logger      *slog.Logger
}

// Assistant resolves questions into display blocks. It holds no per-request
// state and is safe for concurrent use.
type Assistant struct {
	Deps
	entities *EntityResolver
	log      *slog.Logger
}

// NewAssistant wires an Assistant.
func NewAssistant(d Deps) *Assistant {
	if d.Matcher == nil {
		d.Matcher = matcher.New()
	}
	if d.Concurrency <= 0 {
		d.Concurrency = 4
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Assistant{
		Deps:     d,
		entities: NewEntityResolver(d.Catalog, d.Matcher),
		log:      logger.With("component", "assistant"),
	}
}

// Ask classifies question and resolves it against the given cinema.
// Classification failures wrap intent.ErrClassification.
func (a *Assistant) Ask(ctx context.Context, cinemaID int64, cinemaName, question string) (Response, error) {
	if a.Classifier == nil {
		return Response{}, fmt.Errorf("%w: no classifier configured", intent.ErrClassification)
	}
	cls, err := a.Classifier.Classify(ctx, question)
	if err != nil {
		return Response{}, err
	}
	a.log.Debug("question classified",
		"intent", cls.Kind.String(), "time", cls.Time.Kind.String(), "movies", cls.Movies)
	return a.Resolve(ctx, RequestFrom(cinemaID, cinemaName, cls))
}

// Resolve answers req. Unknown cinemas and movies degrade to scripted
// blocks; only store failures (ErrDataAccess) and caller bugs are errors.
func (a *Assistant) Resolve(ctx context.Context, req Request) (Response, error) {
	cinema, err := a.resolveCinema(ctx, req)
	if err != nil {
		return Response{}, err
	}
	if cinema == nil {
		resp := Response{
			Intent:   req.Intent,
			Blocks:   []format.Block{format.CinemaNotFound(a.FallbackURL)},
			NotFound: true,
		}
		a.publish(ctx, resp, req)
		return resp, nil
	}

	resp := Response{Cinema: cinema, Intent: req.Intent}
	switch req.Intent {
	case intent.KindDetails:
		err = a.details(ctx, req, &resp)
	case intent.KindTicketPrices:
		err = a.prices(ctx, &resp)
	case intent.KindCinemaInfo:
		resp.Blocks = []format.Block{a.Formatter.Cinema(*cinema)}
	default:
		err = a.schedule(ctx, req, &resp)
	}
	if err != nil {
		a.log.Error("resolve failed", "cinema_id", cinema.ID, "intent", req.Intent.String(), "error", err)
		return Response{}, err
	}

	a.log.Info("query resolved",
		"cinema_id", cinema.ID,
		"intent", req.Intent.String(),
		"matched", len(resp.Matched),
		"unmatched", len(resp.Unmatched),
		"blocks", len(resp.Blocks),
		"day_fallback", resp.DayFallback,
	)
	a.publish(ctx, resp, req)
	return resp, nil
}

// Reply is the scripted block for an error returned by Ask or Resolve.
func (a *Assistant) Reply(err error) format.Block {
	if errors.Is(err, intent.ErrClassification) {
		return format.NotUnderstood(a.FallbackURL)
	}
	return format.Failure(a.FallbackURL)
}

func (a *Assistant) resolveCinema(ctx context.Context, req Request) (*model.Cinema, error) {
	id := req.CinemaID
	if id <= 0 {
		if strings.TrimSpace(req.CinemaName) == "" {
			return nil, nil
		}
		m, ok, err := a.entities.ResolveCinema(ctx, req.CinemaName)
		if err != nil || !ok {
			return nil, err
		}
		id = m.ID
	}

	c, err := a.Cinemas.GetByID(ctx, id)
	if errors.Is(err, repository.ErrCinemaNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load cinema %d: %w", ErrDataAccess, id, err)
	}
	return c, nil
}

func (a *Assistant) scheduleURL(c *model.Cinema) string {
	if c != nil && c.ScheduleURL != "" {
		return c.ScheduleURL
	}
	return a.FallbackURL
}

func (a *Assistant) schedule(ctx context.Context, req Request, resp *Response) error {
	status := req.Status.Effective()
	presentation := format.PresentSchedule
	switch req.Intent {
	case intent.KindComingSoon:
		status = model.StatusComingSoon
		presentation = format.PresentComingSoon
	case intent.KindNowShowing:
		if status == "" {
			status = model.StatusNowShowing
		}
	}

	link := a.scheduleURL(resp.Cinema)
	var movieIDs []int64
	if len(req.Movies) > 0 {
		if err := a.resolveMovies(ctx, req.Movies, resp.Cinema.ID, resp); err != nil {
			return err
		}
		if len(resp.Matched) == 0 {
			resp.Blocks = notFoundBlocks(resp.Unmatched, link)
			resp.NotFound = true
			return nil
		}
		for _, m := range resp.Matched {
			movieIDs = append(movieIDs, m.ID)
		}
	}

	resp.Days = a.Resolver.ResolveDays(req.Time)
	resp.DayFallback = len(resp.Days) == 0 &&
		req.Time.Kind != temporal.KindNone && req.Time.Kind != temporal.KindWeek

	rows, err := a.Schedules.Find(ctx, repository.ScheduleFilter{
		CinemaID: resp.Cinema.ID,
		MovieIDs: movieIDs,
		Days:     resp.Days,
		Status:   status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrPlaceholderMismatch) || errors.Is(err, repository.ErrMissingCinemaID) {
			return err
		}
		return fmt.Errorf("%w: find schedule: %w", ErrDataAccess, err)
	}

	blocks := a.Formatter.Schedule(rows, presentation)
	if len(blocks) == 0 {
		blocks = []format.Block{format.NoSessions(link)}
	}
	resp.Blocks = append(blocks, notFoundBlocks(resp.Unmatched, link)...)
	return nil
}

func (a *Assistant) details(ctx context.Context, req Request, resp *Response) error {
	link := a.scheduleURL(resp.Cinema)
	if len(req.Movies) == 0 {
		resp.Blocks = []format.Block{format.MissingMovie(link)}
		return nil
	}
	// Details are not limited to what is programmed at this cinema.
	if err := a.resolveMovies(ctx, req.Movies, 0, resp); err != nil {
		return err
	}

	for _, m := range resp.Matched {
		b, err := a.movieDetails(ctx, m.ID)
		if err != nil {
			return err
		}
		resp.Blocks = append(resp.Blocks, b)
	}
	resp.Blocks = append(resp.Blocks, notFoundBlocks(resp.Unmatched, link)...)
	resp.NotFound = len(resp.Matched) == 0
	return nil
}

func (a *Assistant) movieDetails(ctx context.Context, id int64) (format.Block, error) {
	if id <= 0 {
		return nil, ErrMissingMovieID
	}
	m, err := a.Movies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: load movie %d: %w", ErrDataAccess, id, err)
	}
	return a.Formatter.MovieDetails(*m), nil
}

func (a *Assistant) prices(ctx context.Context, resp *Response) error {
	rows, err := a.Prices.ListByCinema(ctx, resp.Cinema.ID)
	if err != nil {
		return fmt.Errorf("%w: list prices: %w", ErrDataAccess, err)
	}
	resp.Blocks = a.Formatter.TicketPrices(rows)
	if len(resp.Blocks) == 0 {
		resp.Blocks = []format.Block{format.NoPrices(a.scheduleURL(resp.Cinema))}
	}
	return nil
}

// resolveMovies matches every name concurrently, bounded by Concurrency.
// Matches keep the order of names and are deduplicated by id.
func (a *Assistant) resolveMovies(ctx context.Context, names []string, scope int64, resp *Response) error {
	type result struct {
		match matcher.Match
		ok    bool
	}
	results := make([]result, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.Concurrency)
	for i, name := range names {
		g.Go(func() error {
			m, ok, err := a.entities.ResolveMovie(gctx, name, scope)
			if err != nil {
				return err
			}
			results[i] = result{match: m, ok: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	seen := make(map[int64]bool, len(results))
	for i, r := range results {
		switch {
		case !r.ok:
			resp.Unmatched = append(resp.Unmatched, names[i])
		case !seen[r.match.ID]:
			seen[r.match.ID] = true
			resp.Matched = append(resp.Matched, r.match)
		}
	}
	return nil
}

func notFoundBlocks(names []string, link string) []format.Block {
	out := make([]format.Block, 0, len(names))
	for _, n := range names {
		out = append(out, format.MovieNotFound(n, link))
	}
	return out
}

// publish emits the query event. Failures are logged, never returned.
func (a *Assistant) publish(ctx context.Context, resp Response, req Request) {
	if a.Events == nil {
		return
	}
	ev := queue.NewQueryResolvedEvent(time.Now())
	ev.Intent = req.Intent.String()
	ev.Status = string(req.Status.Effective())
	ev.Blocks = len(resp.Blocks)
	ev.NotFound = resp.NotFound
	ev.DayFallback = resp.DayFallback
	ev.Unmatched = resp.Unmatched
	if resp.Cinema != nil {
		ev.CinemaID = resp.Cinema.ID
		ev.CinemaName = resp.Cinema.Name
	}
	for _, m := range resp.Matched {
		ev.Movies = append(ev.Movies, m.Name)
	}
	for _, d := range resp.Days {
		ev.Days = append(ev.Days, d.Date.Format("2006-01-02"))
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := a.Events.Publish(pctx, ev); err != nil {
		a.log.Warn("publish query event failed", "event_id", ev.ID, "error", err)
	}
}
