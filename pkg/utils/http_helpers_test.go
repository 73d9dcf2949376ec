package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "staffing-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/pedidos", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccessResponse(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, SuccessResponse(c, map[string]string{"id": "p1"}, http.StatusCreated))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotContains(t, body, "error")
	assert.Equal(t, "p1", body["data"].(map[string]interface{})["id"])
}

func TestErrorResponse_Kinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", apperrors.NewValidationError("duplicado", apperrors.ErrDuplicateAssignment), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("pedido no encontrado"), http.StatusNotFound},
		{"unauthorized", apperrors.NewUnauthorizedError(apperrors.ErrInvalidSecret), http.StatusUnauthorized},
		{"rate limited", apperrors.NewRateLimitedError(), http.StatusTooManyRequests},
		{"upstream", apperrors.NewUpstreamError("WhatsApp no disponible", errors.New("timeout")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
		{"echo", echo.NewHTTPError(http.StatusMethodNotAllowed, "method not allowed"), http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext()
			require.NoError(t, ErrorResponse(c, tc.err, zap.NewNop()))

			assert.Equal(t, tc.code, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "data")
		})
	}
}

func TestErrorResponse_WrappedHttpError(t *testing.T) {
	c, rec := newContext()
	err := errors.Join(errors.New("ctx"), apperrors.NewNotFoundError("camarero no encontrado"))
	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "camarero no encontrado", decode(t, rec)["error"])
}
