package middleware // reusable HTTP middleware for the assistant API

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/showtime-assistant/internal/utils"
)

// Context keys set by JWTAuth.
const (
    ctxOperator = "operator"
    ctxRole     = "role"
)

// JWTAuth validates a Bearer operator token and stores the operator name
// and role in the echo context for RequireRole and the admin handlers.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get("Authorization")
            raw, ok := strings.CutPrefix(auth, "Bearer ")
            if !ok || raw == "" {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }

            claims, err := utils.ParseOperatorToken(secret, raw)
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }

            c.Set(ctxOperator, claims.Subject)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}
