package services

import (
	"context"
	"testing"
	"time"

	"staffing-system/internal/entities"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func TestReportService_ExportFichajes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.seedPedido(t, "p1",
		asig("c1", "Ana", entities.EstadoConfirmado),
		asig("c2", "Luis", entities.EstadoConfirmado),
	)
	fi := entities.NewFichaje("p1", "c1")
	fi.Entrada = null.TimeFrom(testNow)
	fi.Salida = null.TimeFrom(testNow.Add(90 * time.Minute))
	fi.EditadoManual = true
	require.NoError(t, f.fichajes.Save(ctx, &fi))

	svc := NewReportService(f.fichajeSvc, zap.NewNop())
	buf, name, err := svc.ExportFichajes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "fichajes_p1.xlsx", name)

	book, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows(fichajesSheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 5)
	assert.Equal(t, fichajesHeaders, rows[0])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "1h 30min", rows[1][3])
	assert.Equal(t, "Sí", rows[1][5])
	assert.Equal(t, "Luis", rows[2][0])
	assert.Equal(t, "--", rows[2][3])
	assert.Equal(t, "Total", rows[4][0])
	assert.Equal(t, "1h 30min", rows[4][3])

	_, _, err = svc.ExportFichajes(ctx, "nope")
	requireHTTPCode(t, err, 404)
}
