package events

import (
	"time"

	"staffing-system/internal/entities"

	"github.com/google/uuid"
)

const AsignacionRespondidaEventName = "asignacion.respondida"

// AsignacionRespondidaEvent is published after a reply has been stored.
type AsignacionRespondidaEvent struct {
	TxID       uuid.UUID
	Pedido     entities.Pedido
	Asignacion entities.Asignacion
	// Origen is "manual" for operator edits and "whatsapp" for the webhook.
	Origen string
	At     time.Time
}

func (e AsignacionRespondidaEvent) Name() string {
	return AsignacionRespondidaEventName
}
