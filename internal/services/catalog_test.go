package services

import (
	"context"
	"testing"
	"time"

	"staffing-system/internal/entities"
	"staffing-system/internal/repositories"
	"staffing-system/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewCoordinadorRepository(kvstore.NewMemoryStore(), zap.NewNop())
	svc := NewCatalogService[entities.Coordinador](repo, "coordinador", zap.NewNop())

	created := testNow
	svc.now = func() time.Time { return created }

	item, err := svc.Create(ctx, &entities.Coordinador{ID: "ignored", Nombre: "Marta"})
	require.NoError(t, err)
	require.NotEqual(t, "ignored", item.ID)
	assert.Equal(t, testNow, item.CreatedAt)

	svc.now = func() time.Time { return testNow.Add(time.Hour) }
	updated, err := svc.Update(ctx, item.ID, &entities.Coordinador{Nombre: "Marta G."})
	require.NoError(t, err)
	assert.Equal(t, item.ID, updated.ID)
	assert.Equal(t, testNow, updated.CreatedAt)
	assert.Equal(t, testNow.Add(time.Hour), updated.UpdatedAt)

	found, err := svc.Find(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Marta G.", found.Nombre)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = svc.Update(ctx, "missing", &entities.Coordinador{Nombre: "X"})
	httpErr := requireHTTPCode(t, err, 404)
	assert.Equal(t, "coordinador no encontrado", httpErr.Message)

	require.NoError(t, svc.Delete(ctx, item.ID))
	requireHTTPCode(t, svc.Delete(ctx, item.ID), 404)
}
