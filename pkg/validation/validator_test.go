package validation

import (
	"testing"

	"staffing-system/pkg/types"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

type shiftInput struct {
	Numero     int    `validate:"turno"`
	HoraInicio string `validate:"required,hhmm"`
	Fecha      string `validate:"required,fecha"`
}

type optionalInput struct {
	Nota     types.OptionalString `validate:"omitempty,max=5"`
	Telefono null.String          `validate:"omitempty,telefono"`
}

func TestRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&shiftInput{Numero: 1, HoraInicio: "18:30", Fecha: "2024-03-15"}))
	assert.NoError(t, v.Validate(&shiftInput{Numero: 2, HoraInicio: "00:00", Fecha: "2024-02-29"}))

	assert.Error(t, v.Validate(&shiftInput{Numero: 3, HoraInicio: "18:30", Fecha: "2024-03-15"}))
	assert.Error(t, v.Validate(&shiftInput{Numero: 1, HoraInicio: "24:00", Fecha: "2024-03-15"}))
	assert.Error(t, v.Validate(&shiftInput{Numero: 1, HoraInicio: "18:30", Fecha: "2023-02-29"}))
	assert.Error(t, v.Validate(&shiftInput{Numero: 1, HoraInicio: "18:30", Fecha: "15/03/2024"}))
}

func TestNullTypes(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&optionalInput{}))
	assert.NoError(t, v.Validate(&optionalInput{Nota: types.NullOptionalString()}))
	assert.NoError(t, v.Validate(&optionalInput{Nota: types.NewOptionalString("hola"), Telefono: null.StringFrom("+34 600 111 222")}))

	assert.Error(t, v.Validate(&optionalInput{Nota: types.NewOptionalString("demasiado")}))
	assert.Error(t, v.Validate(&optionalInput{Telefono: null.StringFrom("abc")}))
}
