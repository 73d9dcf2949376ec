package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"

	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	SecretHeader   = "X-API-Secret"
	BearerTokenKey = "bearerToken"
)

type AuthMiddleware struct {
	apiSecret string
	hashed    bool
	// verified holds SHA-256 digests of header values that already matched a
	// bcrypt secret. The plaintext is never kept.
	verified sync.Map
	logger   *zap.Logger
}

// NewAuthMiddleware accepts the shared secret either in clear or as a bcrypt
// hash (see hash_secret.go). An empty secret disables the check.
func NewAuthMiddleware(apiSecret string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		apiSecret: apiSecret,
		hashed:    isBcryptHash(apiSecret),
		logger:    logger,
	}
}

// RequireBearer checks that an "Authorization: Bearer <x>" header is present.
// The token itself is not verified here.
func (m *AuthMiddleware) RequireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: cabecera Authorization vacía", zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError(apperrors.ErrEmptyAuthHeader), m.logger)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			m.logger.Warn("AuthMiddleware: formato de Authorization no válido", zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError(apperrors.ErrInvalidAuthHeader), m.logger)
		}

		c.Set(BearerTokenKey, strings.TrimSpace(parts[1]))
		return next(c)
	}
}

// RequireSecret guards mutating methods with the shared secret header.
func (m *AuthMiddleware) RequireSecret(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !isMutating(c.Request().Method) {
			return next(c)
		}

		if m.apiSecret == "" {
			m.logger.Warn("API_SECRET no configurado: petición de escritura aceptada sin secreto",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
			)
			return next(c)
		}

		provided := c.Request().Header.Get(SecretHeader)
		if provided == "" || !m.matches(provided) {
			m.logger.Warn("AuthMiddleware: secreto de API ausente o incorrecto",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("ip", c.RealIP()),
			)
			return utils.ErrorResponse(c, apperrors.NewUnauthorizedError(apperrors.ErrInvalidSecret), m.logger)
		}

		return next(c)
	}
}

func (m *AuthMiddleware) matches(provided string) bool {
	if !m.hashed {
		return subtle.ConstantTimeCompare([]byte(provided), []byte(m.apiSecret)) == 1
	}
	digest := sha256.Sum256([]byte(provided))
	if _, ok := m.verified.Load(digest); ok {
		return true
	}
	if bcrypt.CompareHashAndPassword([]byte(m.apiSecret), []byte(provided)) != nil {
		return false
	}
	m.verified.Store(digest, struct{}{})
	return true
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
