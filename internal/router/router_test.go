package router

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/showtime-assistant/internal/handler"
	"github.com/iliyamo/showtime-assistant/internal/utils"
)

type nopPurger struct{ n int }

func (p *nopPurger) Purge() { p.n++ }

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func TestAdminRoutesRequireOperator(t *testing.T) {
	e := echo.New()
	p := &nopPurger{}
	RegisterRoutes(e, okPinger{})
	RegisterAdmin(e, &handler.AdminHandler{
		Catalog: p,
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, "secret")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/admin/cache", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, p.n)

	tok, err := utils.NewOperatorToken("secret", "ana", time.Hour, time.Now())
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/v1/admin/cache", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, p.n)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAssistantRoutesAreRegistered(t *testing.T) {
	e := echo.New()
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterAssistant(e, &handler.AssistantHandler{}, passthrough, passthrough)

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /v1/ask",
		"GET /v1/cinemas/:id",
		"GET /v1/cinemas/:id/showtimes",
		"GET /v1/cinemas/:id/prices",
		"GET /v1/cinemas/:id/movie",
	} {
		assert.True(t, got[want], want)
	}
}
