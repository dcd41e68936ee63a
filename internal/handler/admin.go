package handler

import (
    "context"
    "log/slog"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/showtime-assistant/internal/middleware"
)

// CachePurger drops cached catalog snapshots.
type CachePurger interface {
    Purge()
}

// AdminHandler serves the operator routes.
type AdminHandler struct {
    Catalog CachePurger
    // FlushResponses removes cached HTTP replies and returns how many.
    FlushResponses func(ctx context.Context) (int, error)
    Log            *slog.Logger
}

// FlushCache handles DELETE /v1/admin/cache.  Operators call it after
// editing the programming so answers reflect the change at once.
func (h *AdminHandler) FlushCache(c echo.Context) error {
    h.Catalog.Purge()

    flushed := 0
    if h.FlushResponses != nil {
        n, err := h.FlushResponses(c.Request().Context())
        if err != nil {
            h.Log.Error("response cache flush failed", "operator", middleware.Operator(c), "error", err)
            return c.JSON(http.StatusBadGateway, echo.Map{"error": "response cache flush failed", "catalog_purged": true})
        }
        flushed = n
    }
    h.Log.Info("caches flushed", "operator", middleware.Operator(c), "responses", flushed)
    return c.JSON(http.StatusOK, echo.Map{"catalog_purged": true, "responses_flushed": flushed})
}
