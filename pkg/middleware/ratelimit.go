package middleware

import (
	"staffing-system/pkg/ratelimit"
	"staffing-system/pkg/utils"

	apperrors "staffing-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit applies the limiter per client: the bearer token when the
// request carries one, the client IP otherwise. Limiter failures let the
// request through. onLimited may be nil.
func RateLimit(limiter ratelimit.Limiter, logger *zap.Logger, onLimited func()) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := clientIdentifier(c)

			allowed, err := limiter.Allow(c.Request().Context(), id)
			if err != nil {
				logger.Warn("rate limiter no disponible, se deja pasar la petición", zap.Error(err))
				return next(c)
			}
			if !allowed {
				if onLimited != nil {
					onLimited()
				}
				logger.Info("petición limitada", zap.String("client", id), zap.String("path", c.Path()))
				return utils.ErrorResponse(c, apperrors.NewRateLimitedError(), logger)
			}
			return next(c)
		}
	}
}

func clientIdentifier(c echo.Context) string {
	if token, ok := c.Get(BearerTokenKey).(string); ok && token != "" {
		return "token:" + token
	}
	return "ip:" + c.RealIP()
}
