// Package handler exposes the assistant over HTTP.  Every answer, including
// failures, carries display blocks and their rendered text so chat front
// ends can relay it as is.
package handler

import (
    "context"
    "errors"
    "log/slog"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/showtime-assistant/internal/format"
    "github.com/iliyamo/showtime-assistant/internal/intent"
    "github.com/iliyamo/showtime-assistant/internal/service"
)

// Assistant is the part of service.Assistant the handlers use.
type Assistant interface {
    Ask(ctx context.Context, cinemaID int64, cinemaName, question string) (service.Response, error)
    Resolve(ctx context.Context, req service.Request) (service.Response, error)
    Reply(err error) format.Block
}

// AssistantHandler serves /v1/ask and the per-cinema read routes.
type AssistantHandler struct {
    Assistant Assistant
    Log       *slog.Logger
}

// AskRequest is the body of POST /v1/ask.  One of CinemaID or CinemaName is
// required.
type AskRequest struct {
    CinemaID   int64  `json:"cinema_id"`
    CinemaName string `json:"cinema_name"`
    Question   string `json:"question"`
}

// CinemaRef identifies the cinema an answer is about.
type CinemaRef struct {
    ID   int64  `json:"id"`
    Name string `json:"name"`
}

// AnswerResponse is the JSON shape of every answer.
type AnswerResponse struct {
    Cinema      *CinemaRef     `json:"cinema,omitempty"`
    Intent      string         `json:"intent"`
    Blocks      []format.Block `json:"blocks"`
    Text        string         `json:"text"`
    Movies      []string       `json:"movies,omitempty"`
    Unmatched   []string       `json:"unmatched,omitempty"`
    Days        []string       `json:"days,omitempty"`
    NotFound    bool           `json:"not_found,omitempty"`
    DayFallback bool           `json:"day_fallback,omitempty"`
    Error       string         `json:"error,omitempty"`
}

// Ask classifies a free-text question and answers it.
func (h *AssistantHandler) Ask(c echo.Context) error {
    var req AskRequest
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid json"})
    }
    req.Question = strings.TrimSpace(req.Question)
    req.CinemaName = strings.TrimSpace(req.CinemaName)
    if req.Question == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "question is required"})
    }
    if req.CinemaID <= 0 && req.CinemaName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cinema_id or cinema_name is required"})
    }

    resp, err := h.Assistant.Ask(c.Request().Context(), req.CinemaID, req.CinemaName, req.Question)
    if err != nil {
        return h.failure(c, err)
    }
    return c.JSON(http.StatusOK, answer(resp))
}

// Showtimes answers GET /v1/cinemas/:id/showtimes?time=&movie=&status=
// without the classifier.  intent may be passed to ask for now_showing or
// coming_soon; it defaults to movie_showtimes.
func (h *AssistantHandler) Showtimes(c echo.Context) error {
    id, ok := cinemaID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
    }
    kind := c.QueryParam("intent")
    if kind == "" {
        kind = intent.KindShowtimes.String()
    }
    cls := intent.FromFields(kind, c.QueryParam("time"), c.QueryParam("movie"), c.QueryParam("status"))
    switch cls.Kind {
    case intent.KindShowtimes, intent.KindNowShowing, intent.KindComingSoon:
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "intent must be a schedule intent"})
    }
    return h.resolve(c, service.RequestFrom(id, "", cls))
}

// Prices answers GET /v1/cinemas/:id/prices.
func (h *AssistantHandler) Prices(c echo.Context) error {
    id, ok := cinemaID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
    }
    return h.resolve(c, service.Request{CinemaID: id, Intent: intent.KindTicketPrices})
}

// Cinema answers GET /v1/cinemas/:id.
func (h *AssistantHandler) Cinema(c echo.Context) error {
    id, ok := cinemaID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
    }
    return h.resolve(c, service.Request{CinemaID: id, Intent: intent.KindCinemaInfo})
}

// Movie answers GET /v1/cinemas/:id/movie?name= with the movie's details.
func (h *AssistantHandler) Movie(c echo.Context) error {
    id, ok := cinemaID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid cinema id"})
    }
    cls := intent.FromFields(intent.KindDetails.String(), "", c.QueryParam("name"), "")
    return h.resolve(c, service.RequestFrom(id, "", cls))
}

func (h *AssistantHandler) resolve(c echo.Context, req service.Request) error {
    resp, err := h.Assistant.Resolve(c.Request().Context(), req)
    if err != nil {
        return h.failure(c, err)
    }
    status := http.StatusOK
    if resp.Cinema == nil && resp.NotFound {
        status = http.StatusNotFound
    }
    return c.JSON(status, answer(resp))
}

// failure answers with the scripted block for err.  A question the model
// could not classify is still a normal conversation turn.
func (h *AssistantHandler) failure(c echo.Context, err error) error {
    block := h.Assistant.Reply(err)
    out := AnswerResponse{
        Intent: intent.KindUnrecognized.String(),
        Blocks: []format.Block{block},
        Text:   block.String(),
    }
    status := http.StatusInternalServerError
    level := slog.LevelError
    switch {
    case errors.Is(err, intent.ErrClassification):
        out.Error = "not_understood"
        status = http.StatusOK
        level = slog.LevelWarn
    case errors.Is(err, service.ErrDataAccess):
        out.Error = "data_unavailable"
        status = http.StatusServiceUnavailable
    default:
        out.Error = "internal"
    }
    h.Log.Log(c.Request().Context(), level, "assistant request failed",
        "route", c.Path(), "reply", out.Error, "error", err)
    return c.JSON(status, out)
}

func answer(r service.Response) AnswerResponse {
    out := AnswerResponse{
        Intent:      r.Intent.String(),
        Blocks:      r.Blocks,
        Text:        r.Text(),
        Unmatched:   r.Unmatched,
        NotFound:    r.NotFound,
        DayFallback: r.DayFallback,
    }
    if r.Cinema != nil {
        out.Cinema = &CinemaRef{ID: r.Cinema.ID, Name: r.Cinema.Name}
    }
    for _, m := range r.Matched {
        out.Movies = append(out.Movies, m.Name)
    }
    for _, d := range r.Days {
        switch {
        case d.HasDate():
            out.Days = append(out.Days, d.Date.Format("2006-01-02"))
        case d.Weekday != "":
            out.Days = append(out.Days, string(d.Weekday))
        }
    }
    return out
}

func cinemaID(c echo.Context) (int64, bool) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    return id, err == nil && id > 0
}
