package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-assistant/internal/format"
	"github.com/iliyamo/showtime-assistant/internal/intent"
	"github.com/iliyamo/showtime-assistant/internal/matcher"
	"github.com/iliyamo/showtime-assistant/internal/model"
	"github.com/iliyamo/showtime-assistant/internal/service"
	"github.com/iliyamo/showtime-assistant/internal/temporal"
)

type fakeAssistant struct {
	askErr     error
	resolveErr error
	asked      struct {
		id       int64
		name     string
		question string
	}
	resolved []service.Request
}

func (f *fakeAssistant) Ask(_ context.Context, id int64, name, q string) (service.Response, error) {
	f.asked.id, f.asked.name, f.asked.question = id, name, q
	if f.askErr != nil {
		return service.Response{}, f.askErr
	}
	return f.respond(service.Request{CinemaID: id, Intent: intent.KindShowtimes})
}

func (f *fakeAssistant) Resolve(_ context.Context, req service.Request) (service.Response, error) {
	f.resolved = append(f.resolved, req)
	if f.resolveErr != nil {
		return service.Response{}, f.resolveErr
	}
	return f.respond(req)
}

func (f *fakeAssistant) respond(req service.Request) (service.Response, error) {
	if req.CinemaID == 404 {
		return service.Response{
			Intent:   req.Intent,
			Blocks:   []format.Block{format.CinemaNotFound("https://example.com")},
			NotFound: true,
		}, nil
	}
	return service.Response{
		Cinema:  &model.Cinema{ID: req.CinemaID, Name: "Cine Centro"},
		Intent:  req.Intent,
		Blocks:  []format.Block{{{Label: "Filme", Value: "Duna"}}},
		Matched: []matcher.Match{{ID: 1, Name: "Duna", Confidence: 1}},
		Days: []temporal.Resolution{
			{Weekday: "sexta", Date: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		},
	}, nil
}

func (f *fakeAssistant) Reply(err error) format.Block {
	if errors.Is(err, intent.ErrClassification) {
		return format.NotUnderstood("https://example.com")
	}
	return format.Failure("https://example.com")
}

func newServer(a Assistant) *echo.Echo {
	return newServerLogging(a, io.Discard)
}

func newServerLogging(a Assistant, w io.Writer) *echo.Echo {
	e := echo.New()
	h := &AssistantHandler{Assistant: a, Log: slog.New(slog.NewTextHandler(w, nil))}
	e.POST("/v1/ask", h.Ask)
	e.GET("/v1/cinemas/:id", h.Cinema)
	e.GET("/v1/cinemas/:id/showtimes", h.Showtimes)
	e.GET("/v1/cinemas/:id/prices", h.Prices)
	e.GET("/v1/cinemas/:id/movie", h.Movie)
	return e
}

func do(e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, AnswerResponse) {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var out AnswerResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestAsk_OK(t *testing.T) {
	fa := &fakeAssistant{}
	rec, out := do(newServer(fa), http.MethodPost, "/v1/ask", `{"cinema_id": 7, "question": " que horas passa duna amanhã? "}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), fa.asked.id)
	assert.Equal(t, "que horas passa duna amanhã?", fa.asked.question)
	assert.Equal(t, "movie_showtimes", out.Intent)
	assert.Equal(t, &CinemaRef{ID: 7, Name: "Cine Centro"}, out.Cinema)
	assert.Equal(t, []string{"Duna"}, out.Movies)
	assert.Equal(t, []string{"2025-01-10"}, out.Days)
	assert.Equal(t, "Filme: Duna", out.Text)
}

func TestAsk_Validation(t *testing.T) {
	e := newServer(&fakeAssistant{})
	cases := map[string]string{
		"bad json":    `{"cinema_id": `,
		"no question": `{"cinema_id": 7, "question": "  "}`,
		"no cinema":   `{"question": "oi"}`,
	}
	for name, body := range cases {
		rec, _ := do(e, http.MethodPost, "/v1/ask", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestAsk_FailuresAreScripted(t *testing.T) {
	cases := []struct {
		err    error
		code   int
		tag    string
		prefix string
	}{
		{fmt.Errorf("%w: timeout", intent.ErrClassification), http.StatusOK, "not_understood", "Aviso: Não entendi"},
		{fmt.Errorf("%w: conn refused", service.ErrDataAccess), http.StatusServiceUnavailable, "data_unavailable", "Aviso:"},
		{errors.New("bug"), http.StatusInternalServerError, "internal", "Aviso:"},
	}
	for _, tc := range cases {
		var logs bytes.Buffer
		rec, out := do(newServerLogging(&fakeAssistant{askErr: tc.err}, &logs), http.MethodPost, "/v1/ask",
			`{"cinema_name": "centro", "question": "oi"}`)
		assert.Equal(t, tc.code, rec.Code, tc.tag)
		assert.Equal(t, tc.tag, out.Error)
		require.Len(t, out.Blocks, 1)
		assert.True(t, strings.HasPrefix(out.Text, tc.prefix), out.Text)
		assert.Contains(t, logs.String(), "reply="+tc.tag)
		assert.Contains(t, logs.String(), "route=/v1/ask")
	}
}

func TestShowtimes_BuildsRequestFromQuery(t *testing.T) {
	fa := &fakeAssistant{}
	rec, _ := do(newServer(fa), http.MethodGet,
		"/v1/cinemas/7/showtimes?time=sexta&movie=Duna,Moana%202&status=em%20cartaz", "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fa.resolved, 1)
	req := fa.resolved[0]
	assert.Equal(t, int64(7), req.CinemaID)
	assert.Equal(t, intent.KindShowtimes, req.Intent)
	assert.Equal(t, temporal.KindWeekday, req.Time.Kind)
	assert.Equal(t, []string{"Duna", "Moana 2"}, req.Movies)
	assert.Equal(t, model.StatusNowShowing, req.Status.Effective())
}

func TestShowtimes_IntentParam(t *testing.T) {
	fa := &fakeAssistant{}
	e := newServer(fa)

	rec, _ := do(e, http.MethodGet, "/v1/cinemas/7/showtimes?intent=coming_soon", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, intent.KindComingSoon, fa.resolved[0].Intent)

	rec, _ = do(e, http.MethodGet, "/v1/cinemas/7/showtimes?intent=ticket_prices", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCinemaRoutes(t *testing.T) {
	fa := &fakeAssistant{}
	e := newServer(fa)

	rec, out := do(e, http.MethodGet, "/v1/cinemas/7/prices", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ticket_prices", out.Intent)

	rec, out = do(e, http.MethodGet, "/v1/cinemas/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cinema_info", out.Intent)

	rec, _ = do(e, http.MethodGet, "/v1/cinemas/7/movie?name=duna", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"duna"}, fa.resolved[2].Movies)
	assert.Equal(t, intent.KindDetails, fa.resolved[2].Intent)

	rec, out = do(e, http.MethodGet, "/v1/cinemas/404", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, out.NotFound)

	rec, _ = do(e, http.MethodGet, "/v1/cinemas/abc/prices", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type purger struct{ calls int }

func (p *purger) Purge() { p.calls++ }

func TestAdmin_FlushCache(t *testing.T) {
	p := &purger{}
	h := &AdminHandler{
		Catalog:        p,
		FlushResponses: func(context.Context) (int, error) { return 3, nil },
		Log:            slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	e := echo.New()
	e.DELETE("/v1/admin/cache", h.FlushCache)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/admin/cache", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"catalog_purged": true, "responses_flushed": 3}`, rec.Body.String())
	assert.Equal(t, 1, p.calls)

	h.FlushResponses = func(context.Context) (int, error) { return 0, errors.New("redis down") }
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/admin/cache", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 2, p.calls)
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthAndReady(t *testing.T) {
	e := echo.New()
	e.GET("/healthz", Health)
	e.GET("/readyz", Ready(pinger{}))
	e.GET("/readyz-down", Ready(pinger{err: errors.New("down")}))

	for path, code := range map[string]int{
		"/healthz":     http.StatusOK,
		"/readyz":      http.StatusOK,
		"/readyz-down": http.StatusServiceUnavailable,
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, rec.Code, path)
	}
}
