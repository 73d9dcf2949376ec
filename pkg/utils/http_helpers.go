package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "staffing-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HTTPResponse is the envelope every endpoint answers with.
type HTTPResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func SuccessResponse(ctx echo.Context, data interface{}, code int) error {
	return ctx.JSON(code, &HTTPResponse{Success: true, Data: data})
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		fields := []zap.Field{
			zap.Int("code", httpErr.Code),
			zap.String("message", httpErr.Message),
			zap.Error(httpErr.Err),
			zap.String("path", c.Request().URL.Path),
		}
		if httpErr.Context != nil {
			fields = append(fields, zap.Any("context", httpErr.Context))
		}
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error", fields...)
		} else {
			logger.Debug("HTTP Error", fields...)
		}

		return c.JSON(httpErr.Code, &HTTPResponse{Success: false, Error: httpErr.Message, Details: httpErr.Details})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		msgs := make([]string, 0, len(validationErrors))
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("el campo '%s' no cumple la regla '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, &HTTPResponse{Success: false, Error: "Error de validación: " + strings.Join(msgs, "; ")})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return c.JSON(echoErr.Code, &HTTPResponse{Success: false, Error: fmt.Sprint(echoErr.Message)})
	}

	logger.Error("Unexpected Error", zap.Error(err), zap.String("path", c.Request().URL.Path))
	return c.JSON(http.StatusInternalServerError, &HTTPResponse{Success: false, Error: "Error interno del servidor"})
}

// HTTPErrorHandler routes errors that escape handlers (unknown routes,
// middleware failures) through the same envelope.
func HTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if respErr := ErrorResponse(c, err, logger); respErr != nil {
			logger.Error("no se pudo escribir la respuesta de error", zap.Error(respErr))
		}
	}
}
