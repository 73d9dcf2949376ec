package dto

import (
	"staffing-system/pkg/types"

	"github.com/aarondl/null/v8"
)

type CreateAsignacionDTO struct {
	CamareroID string `json:"camarero_id" validate:"required"`
	// Nombre and Numero are looked up in the camareros catalog when empty.
	Nombre string   `json:"nombre" validate:"max=200"`
	Numero string   `json:"numero" validate:"max=20"`
	Turno  null.Int `json:"turno" validate:"omitempty,turno"`
}

// UpdateAsignacionDTO distinguishes absent fields from explicit nulls: null
// clears an override, absence leaves it untouched. Estado only accepts
// "pendiente" (operator reset).
type UpdateAsignacionDTO struct {
	Turno       types.OptionalInt    `json:"turno" validate:"omitempty,turno"`
	HoraEntrada types.OptionalString `json:"hora_entrada" validate:"omitempty,hhmm"`
	HoraSalida  types.OptionalString `json:"hora_salida" validate:"omitempty,hhmm"`
	Estado      *string              `json:"estado,omitempty" validate:"omitempty,oneof=pendiente"`
}

type RespuestaDTO struct {
	Estado string `json:"estado" validate:"required,oneof=confirmado no_confirmado rechazado"`
}

type EnviarNotificacionDTO struct {
	Canal string `json:"canal" validate:"omitempty,oneof=whatsapp email"`
}

type AsignacionDTO struct {
	CamareroID  string      `json:"camarero_id"`
	Nombre      string      `json:"nombre"`
	Numero      string      `json:"numero,omitempty"`
	Estado      string      `json:"estado"`
	Turno       null.Int    `json:"turno"`
	HoraEntrada null.String `json:"hora_entrada"`
	HoraSalida  null.String `json:"hora_salida"`
}

type EnvioResultDTO struct {
	Asignacion AsignacionDTO `json:"asignacion"`
	Canal      string        `json:"canal"`
	// Modo is "automatico" when the message left through the API and
	// "manual" when the operator must open Enlace.
	Modo      string `json:"modo"`
	Enlace    string `json:"enlace,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}
