package utils

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
)

// Ctx derives a request-scoped context with a deadline for store and
// gateway calls.
func Ctx(c echo.Context, seconds int) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), time.Duration(seconds)*time.Second)
}
