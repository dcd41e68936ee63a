package middleware

import "github.com/labstack/echo/v4"

// Operator returns the operator name stored by JWTAuth, or "" on routes
// that are not authenticated.
func Operator(c echo.Context) string {
    name, _ := c.Get(ctxOperator).(string)
    return name
}
