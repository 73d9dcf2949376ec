package dto

import (
	"time"

	"staffing-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// SetFichajeDTO: an absent field is left as is, an explicit null clears it.
// Timestamps accept RFC3339 or "YYYY-MM-DDTHH:MM[:SS]".
type SetFichajeDTO struct {
	Entrada types.OptionalString `json:"entrada"`
	Salida  types.OptionalString `json:"salida"`
	Nota    types.OptionalString `json:"nota" validate:"omitempty,max=100"`
}

type FichajeDTO struct {
	PedidoID      string      `json:"pedido_id"`
	CamareroID    string      `json:"camarero_id"`
	Nombre        string      `json:"nombre,omitempty"`
	Entrada       null.Time   `json:"entrada"`
	Salida        null.Time   `json:"salida"`
	Nota          null.String `json:"nota"`
	EditadoManual bool        `json:"editado_manual"`
	Estado        string      `json:"estado"`
	Duracion      string      `json:"duracion"`
}

type ResumenItemDTO struct {
	CamareroID string `json:"camarero_id"`
	Nombre     string `json:"nombre"`
	Duracion   string `json:"duracion"`
	Minutos    int64  `json:"minutos"`
}

type ResumenDTO struct {
	PedidoID     string           `json:"pedido_id"`
	Items        []ResumenItemDTO `json:"items"`
	TotalMinutos int64            `json:"total_minutos"`
	Total        string           `json:"total"`
}

type CheckinResultDTO struct {
	// Accion is "entrada" or "salida".
	Accion  string     `json:"accion"`
	Fichaje FichajeDTO `json:"fichaje"`
}

type QRTokenDTO struct {
	PedidoID   string    `json:"pedido_id"`
	CamareroID string    `json:"camarero_id"`
	Token      string    `json:"token"`
	Enlace     string    `json:"enlace"`
	ExpiraEn   time.Time `json:"expira_en"`
}
