package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Autorización
	ErrEmptyAuthHeader   = errors.New("falta la cabecera Authorization")
	ErrInvalidAuthHeader = errors.New("formato de cabecera Authorization no válido")
	ErrInvalidSecret     = errors.New("secreto de API ausente o incorrecto")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrInvalidSignature  = errors.New("firma del webhook ausente o incorrecta")

	// Límite de peticiones
	ErrRateLimited = errors.New("demasiadas peticiones")

	// Dominio
	ErrDuplicateAssignment = errors.New("el camarero ya está asignado a este pedido")
	ErrInvalidTransition   = errors.New("transición de estado no permitida")
	ErrForeignSender       = errors.New("el remitente no coincide con el teléfono del camarero")

	// Generales
	ErrNotFound   = errors.New("registro no encontrado")
	ErrBadRequest = errors.New("petición no válida")
	ErrUpstream   = errors.New("servicio externo no disponible")
)

// HttpError carries the status code the boundary layer must answer with,
// the user facing message and the underlying cause for logging.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Details interface{}
	Context map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: ctx}
}

func NewValidationError(message string, err error) *HttpError {
	if err == nil {
		err = ErrBadRequest
	}
	return &HttpError{Code: http.StatusBadRequest, Message: message, Err: err}
}

func NewNotFoundError(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func NewUnauthorizedError(err error) *HttpError {
	return &HttpError{Code: http.StatusUnauthorized, Message: err.Error(), Err: err}
}

func NewRateLimitedError() *HttpError {
	return &HttpError{Code: http.StatusTooManyRequests, Message: ErrRateLimited.Error(), Err: ErrRateLimited}
}

func NewUpstreamError(message string, err error) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: message, Err: fmt.Errorf("%w: %v", ErrUpstream, err)}
}
