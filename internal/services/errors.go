package services

import (
	"errors"

	apperrors "staffing-system/pkg/errors"
)

// storeError turns a repository error into one of the HTTP-facing kinds:
// a missing record becomes NotFound with msg, anything else is treated as
// the store being unreachable.
func storeError(err error, notFoundMsg string) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return err
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError(notFoundMsg)
	}
	return apperrors.NewUpstreamError("el almacén de datos no está disponible", err)
}

func invalidTransition(msg string) error {
	return apperrors.NewValidationError(msg, apperrors.ErrInvalidTransition)
}
