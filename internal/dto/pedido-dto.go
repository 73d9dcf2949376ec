package dto

import (
	"github.com/aarondl/null/v8"
)

type TurnoDTO struct {
	Numero     int    `json:"numero" validate:"turno"`
	Camareros  int    `json:"camareros" validate:"gte=1"`
	HoraInicio string `json:"hora_inicio" validate:"required,hhmm"`
	HoraFin    string `json:"hora_fin" validate:"required,hhmm"`
}

// CreatePedidoDTO is also the body of PUT /pedidos/:id, which replaces every
// field but keeps the assignments.
type CreatePedidoDTO struct {
	Cliente       string      `json:"cliente" validate:"required,max=200"`
	ClienteID     null.String `json:"cliente_id"`
	CoordinadorID null.String `json:"coordinador_id"`
	Lugar         string      `json:"lugar" validate:"required,max=300"`
	FechaEvento   string      `json:"fecha_evento" validate:"required,fecha"`
	Turnos        []TurnoDTO  `json:"turnos" validate:"required,min=1,max=2,dive"`
	Catering      bool        `json:"catering"`
	ColorCamisa   string      `json:"color_camisa" validate:"max=50"`
	Notas         string      `json:"notas" validate:"max=2000"`
}

type PedidoDTO struct {
	ID            string          `json:"id"`
	Cliente       string          `json:"cliente"`
	ClienteID     null.String     `json:"cliente_id"`
	CoordinadorID null.String     `json:"coordinador_id"`
	Lugar         string          `json:"lugar"`
	FechaEvento   string          `json:"fecha_evento"`
	Turnos        []TurnoDTO      `json:"turnos"`
	Catering      bool            `json:"catering"`
	ColorCamisa   string          `json:"color_camisa"`
	Notas         string          `json:"notas"`
	Asignaciones  []AsignacionDTO `json:"asignaciones"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}
