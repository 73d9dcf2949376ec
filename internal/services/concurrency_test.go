package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/pkg/keymutex"
	"staffing-system/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const concurrentWriters = 16

// runConcurrently starts n calls of fn at once and returns their errors.
func runConcurrently(n int, fn func(i int) error) []error {
	errs := make([]error, n)
	start := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func lockers() map[string]func() keymutex.Locker {
	return map[string]func() keymutex.Locker{
		"serialized":      keymutex.New,
		"last write wins": keymutex.Noop,
	}
}

func TestConcurrentRecordReply(t *testing.T) {
	for name, newLocker := range lockers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureWithLocker(t, false, newLocker())
			f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoEnviado))

			errs := runConcurrently(concurrentWriters, func(int) error {
				_, err := f.asignaciones.RecordReply(ctx, "p1", "c1", entities.EstadoConfirmado, OrigenWhatsApp)
				return err
			})
			for i, err := range errs {
				assert.NoError(t, err, "writer %d", i)
			}

			p, err := f.pedidos.Find(ctx, "p1")
			require.NoError(t, err)
			assert.Equal(t, entities.EstadoConfirmado, p.Asignaciones[0].Estado)

			fichaje, err := f.fichajeSvc.GetFichaje(ctx, "p1", "c1")
			require.NoError(t, err)
			assert.False(t, fichaje.Entrada.Valid)
		})
	}
}

func TestConcurrentSetFichaje(t *testing.T) {
	for name, newLocker := range lockers() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			f := newFixtureWithLocker(t, false, newLocker())
			f.seedPedido(t, "p1", asig("c1", "Ana", entities.EstadoConfirmado))

			errs := runConcurrently(concurrentWriters, func(i int) error {
				_, err := f.fichajeSvc.SetFichaje(ctx, "p1", "c1", dto.SetFichajeDTO{
					Entrada: types.NewOptionalString("2024-03-15T18:00:00Z"),
					Salida:  types.NewOptionalString("2024-03-15T23:00:00Z"),
					Nota:    types.NewOptionalString(fmt.Sprintf("escritor %d", i)),
				})
				return err
			})
			for i, err := range errs {
				assert.NoError(t, err, "writer %d", i)
			}

			got, err := f.fichajeSvc.GetFichaje(ctx, "p1", "c1")
			require.NoError(t, err)
			assert.True(t, got.EditadoManual)
			assert.Equal(t, "5h 0min", got.Duracion)
			assert.Contains(t, got.Nota.String, "escritor ")
		})
	}
}
