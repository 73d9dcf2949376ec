package entities

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstadoAsignacion_Unmarshal(t *testing.T) {
	var a Asignacion
	require.NoError(t, json.Unmarshal([]byte(`{"camarero_id":"c1","estado":"rechazado"}`), &a))
	assert.Equal(t, EstadoNoConfirmado, a.Estado)

	require.NoError(t, json.Unmarshal([]byte(`{"camarero_id":"c1","estado":"enviado"}`), &a))
	assert.Equal(t, EstadoEnviado, a.Estado)

	assert.Error(t, json.Unmarshal([]byte(`{"camarero_id":"c1","estado":"quizas"}`), &a))
}

func TestValidTransition(t *testing.T) {
	assert.True(t, ValidTransition(AccionEnviar, EstadoPendiente))
	assert.False(t, ValidTransition(AccionEnviar, EstadoEnviado))
	assert.False(t, ValidTransition(AccionEnviar, EstadoConfirmado))

	assert.True(t, ValidTransition(AccionConfirmar, EstadoPendiente))
	assert.True(t, ValidTransition(AccionConfirmar, EstadoEnviado))
	assert.False(t, ValidTransition(AccionConfirmar, EstadoNoConfirmado))

	for _, e := range []EstadoAsignacion{EstadoPendiente, EstadoEnviado, EstadoConfirmado, EstadoNoConfirmado} {
		assert.True(t, ValidTransition(AccionReiniciar, e), e)
	}
	assert.Equal(t, EstadoNoConfirmado, AccionRechazar.Destino())
}

func TestPedido_Validate(t *testing.T) {
	p := &Pedido{ID: "p1", Asignaciones: []Asignacion{{CamareroID: "c1"}, {CamareroID: "c1"}}}
	assert.Error(t, p.Validate())

	p.Asignaciones = p.Asignaciones[:1]
	assert.NoError(t, p.Validate())
}

func TestPedido_HorarioDe(t *testing.T) {
	p := &Pedido{ID: "p1", Turnos: []Turno{
		{Numero: 1, Camareros: 3, HoraInicio: "12:00", HoraFin: "17:00"},
		{Numero: 2, Camareros: 2, HoraInicio: "19:00", HoraFin: "01:00"},
	}}

	inicio, fin := p.HorarioDe(Asignacion{})
	assert.Equal(t, "12:00", inicio)
	assert.Equal(t, "17:00", fin)

	inicio, fin = p.HorarioDe(Asignacion{Turno: null.IntFrom(2), HoraEntrada: null.StringFrom("18:30")})
	assert.Equal(t, "18:30", inicio)
	assert.Equal(t, "01:00", fin)
}

func TestFichaje_Estado(t *testing.T) {
	now := time.Now()
	f := NewFichaje("p1", "c1")
	assert.Equal(t, FichajePendiente, f.Estado())

	f.Entrada = null.TimeFrom(now)
	assert.Equal(t, FichajeEnCurso, f.Estado())

	f.Salida = null.TimeFrom(now.Add(time.Hour))
	assert.Equal(t, FichajeCompleto, f.Estado())

	f.Entrada = null.Time{}
	assert.Equal(t, FichajePendiente, f.Estado())
}

func TestFichaje_ValidateNota(t *testing.T) {
	f := NewFichaje("p1", "c1")
	f.Nota = null.StringFrom(strings.Repeat("ñ", MaxNotaFichaje))
	assert.NoError(t, f.Validate())

	f.Nota = null.StringFrom(strings.Repeat("ñ", MaxNotaFichaje+1))
	assert.Error(t, f.Validate())
}

func TestCamarero_DisplayName(t *testing.T) {
	c := &Camarero{Nombre: "Ana ", Apellidos: " García"}
	assert.Equal(t, "Ana García", c.DisplayName())
}
