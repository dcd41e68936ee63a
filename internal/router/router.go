package router // package router registers the HTTP routes of the assistant API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/showtime-assistant/internal/handler"
	"github.com/iliyamo/showtime-assistant/internal/middleware"
	"github.com/iliyamo/showtime-assistant/internal/utils"
)

// RegisterRoutes registers the probes.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
}

// RegisterAssistant registers the question endpoint and the per-cinema read
// routes.  limit guards every route since each one reaches the database and
// /v1/ask also reaches the language model; cache only wraps the GET routes.
func RegisterAssistant(e *echo.Echo, h *handler.AssistantHandler, limit, cache echo.MiddlewareFunc) {
	v1 := e.Group("/v1", limit)
	v1.POST("/ask", h.Ask)

	cinemas := v1.Group("/cinemas/:id", cache)
	cinemas.GET("", h.Cinema)
	cinemas.GET("/showtimes", h.Showtimes)
	cinemas.GET("/prices", h.Prices)
	cinemas.GET("/movie", h.Movie)
}

// RegisterAdmin registers operator routes behind JWT and the OPERATOR role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	admin := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(utils.RoleOperator),
	)
	admin.DELETE("/cache", a.FlushCache)
}
