package entities

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/aarondl/null/v8"
)

const MaxNotaFichaje = 100

type EstadoFichaje string

const (
	FichajePendiente EstadoFichaje = "pendiente"
	FichajeEnCurso   EstadoFichaje = "en_curso"
	FichajeCompleto  EstadoFichaje = "completo"
)

// Fichaje is keyed by (PedidoID, CamareroID). EditadoManual is set by
// operator edits only; QR check-ins leave it alone.
type Fichaje struct {
	PedidoID      string      `json:"pedido_id"`
	CamareroID    string      `json:"camarero_id"`
	Entrada       null.Time   `json:"entrada"`
	Salida        null.Time   `json:"salida"`
	Nota          null.String `json:"nota"`
	EditadoManual bool        `json:"editado_manual"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func NewFichaje(pedidoID, camareroID string) Fichaje {
	return Fichaje{PedidoID: pedidoID, CamareroID: camareroID}
}

// Estado is derived from which timestamps are present. A salida without
// entrada (possible after a manual clear) still counts as pending.
func (f Fichaje) Estado() EstadoFichaje {
	switch {
	case f.Entrada.Valid && f.Salida.Valid:
		return FichajeCompleto
	case f.Entrada.Valid:
		return FichajeEnCurso
	default:
		return FichajePendiente
	}
}

func (f *Fichaje) Validate() error {
	if f.PedidoID == "" || f.CamareroID == "" {
		return fmt.Errorf("fichaje sin clave")
	}
	if f.Nota.Valid && utf8.RuneCountInString(f.Nota.String) > MaxNotaFichaje {
		return fmt.Errorf("nota de más de %d caracteres", MaxNotaFichaje)
	}
	return nil
}
