package services

import (
	"testing"

	"staffing-system/internal/entities"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestReplyPayload_RoundTrip(t *testing.T) {
	outcome, pid, cid, ok := ParseReplyPayload(ReplyPayload(ReplyRechazar, "p-1", "c:2"))
	assert.True(t, ok)
	assert.Equal(t, entities.EstadoNoConfirmado, outcome)
	assert.Equal(t, "p-1", pid)
	assert.Equal(t, "c:2", cid)

	for _, bad := range []string{"", "CONFIRMAR", "CONFIRMAR:p1", "QUIZAS:p1:c1", "CONFIRMAR::c1"} {
		_, _, _, ok := ParseReplyPayload(bad)
		assert.False(t, ok, bad)
	}
}

func TestConvocatoriaText_UsesAssignmentHours(t *testing.T) {
	p := &entities.Pedido{
		Cliente:     "Bodas Sur",
		Lugar:       "Finca",
		FechaEvento: "2024-03-15",
		Turnos:      []entities.Turno{{Numero: 1, Camareros: 1, HoraInicio: "18:00", HoraFin: "23:00"}},
	}
	a := entities.Asignacion{CamareroID: "c1", Nombre: "Ana", HoraSalida: null.StringFrom("01:00")}

	text := convocatoriaText(p, a)
	assert.Contains(t, text, "Hola Ana")
	assert.Contains(t, text, "18:00 - 01:00")
	assert.NotContains(t, text, "Camisa")
}
