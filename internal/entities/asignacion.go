package entities

import (
	"encoding/json"
	"fmt"

	"github.com/aarondl/null/v8"
)

type EstadoAsignacion string

const (
	EstadoPendiente    EstadoAsignacion = "pendiente"
	EstadoEnviado      EstadoAsignacion = "enviado"
	EstadoConfirmado   EstadoAsignacion = "confirmado"
	EstadoNoConfirmado EstadoAsignacion = "no_confirmado"

	// estadoRechazado is how older records spell no_confirmado.
	estadoRechazado = "rechazado"
)

func ParseEstadoAsignacion(s string) (EstadoAsignacion, error) {
	switch s {
	case string(EstadoPendiente), string(EstadoEnviado), string(EstadoConfirmado), string(EstadoNoConfirmado):
		return EstadoAsignacion(s), nil
	case estadoRechazado:
		return EstadoNoConfirmado, nil
	}
	return "", fmt.Errorf("estado de asignación desconocido: %q", s)
}

func (e *EstadoAsignacion) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseEstadoAsignacion(s)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// IsReply reports whether the state is one of the two reply outcomes.
func (e EstadoAsignacion) IsReply() bool {
	return e == EstadoConfirmado || e == EstadoNoConfirmado
}

type AccionAsignacion string

const (
	AccionEnviar    AccionAsignacion = "enviar"
	AccionConfirmar AccionAsignacion = "confirmar"
	AccionRechazar  AccionAsignacion = "rechazar"
	AccionReiniciar AccionAsignacion = "reiniciar"
)

// asignacionTransitions lists, per action, the states it may start from.
var asignacionTransitions = map[AccionAsignacion][]EstadoAsignacion{
	AccionEnviar:    {EstadoPendiente},
	AccionConfirmar: {EstadoPendiente, EstadoEnviado},
	AccionRechazar:  {EstadoPendiente, EstadoEnviado},
	AccionReiniciar: {EstadoPendiente, EstadoEnviado, EstadoConfirmado, EstadoNoConfirmado},
}

var accionDestino = map[AccionAsignacion]EstadoAsignacion{
	AccionEnviar:    EstadoEnviado,
	AccionConfirmar: EstadoConfirmado,
	AccionRechazar:  EstadoNoConfirmado,
	AccionReiniciar: EstadoPendiente,
}

func ValidTransition(accion AccionAsignacion, from EstadoAsignacion) bool {
	for _, status := range asignacionTransitions[accion] {
		if status == from {
			return true
		}
	}
	return false
}

func (a AccionAsignacion) Destino() EstadoAsignacion {
	return accionDestino[a]
}

// AccionRespuesta maps a reply outcome to the action that produces it.
func AccionRespuesta(outcome EstadoAsignacion) (AccionAsignacion, bool) {
	switch outcome {
	case EstadoConfirmado:
		return AccionConfirmar, true
	case EstadoNoConfirmado:
		return AccionRechazar, true
	}
	return "", false
}

// Asignacion links one camarero to one pedido. Nombre and Numero are copied
// from the camarero record when the assignment is created.
type Asignacion struct {
	CamareroID  string           `json:"camarero_id"`
	Nombre      string           `json:"nombre"`
	Numero      string           `json:"numero,omitempty"`
	Estado      EstadoAsignacion `json:"estado"`
	Turno       null.Int         `json:"turno"`
	HoraEntrada null.String      `json:"hora_entrada"`
	HoraSalida  null.String      `json:"hora_salida"`
}
