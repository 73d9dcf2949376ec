package repositories

import (
	"context"

	"staffing-system/internal/entities"
	"staffing-system/pkg/kvstore"

	"go.uber.org/zap"
)

type FichajeRepositoryInterface interface {
	Find(ctx context.Context, pedidoID, camareroID string) (*entities.Fichaje, error)
	ListByPedido(ctx context.Context, pedidoID string) ([]entities.Fichaje, error)
	Save(ctx context.Context, fichaje *entities.Fichaje) error
}

// FichajeRepository keeps one namespace per pedido, keyed by camarero id.
type FichajeRepository struct {
	store  kvstore.Store
	logger *zap.Logger
}

func NewFichajeRepository(store kvstore.Store, logger *zap.Logger) FichajeRepositoryInterface {
	return &FichajeRepository{store: store, logger: logger}
}

func fichajesNamespace(pedidoID string) string {
	return "fichajes:" + pedidoID
}

func (r *FichajeRepository) Find(ctx context.Context, pedidoID, camareroID string) (*entities.Fichaje, error) {
	data, err := r.store.Get(ctx, fichajesNamespace(pedidoID), camareroID)
	if err != nil {
		return nil, mapStoreError(err, "fichaje "+pedidoID+"/"+camareroID)
	}
	var f entities.Fichaje
	if err := decode(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FichajeRepository) ListByPedido(ctx context.Context, pedidoID string) ([]entities.Fichaje, error) {
	records, err := r.store.List(ctx, fichajesNamespace(pedidoID))
	if err != nil {
		return nil, mapStoreError(err, "listar fichajes de "+pedidoID)
	}

	out := make([]entities.Fichaje, 0, len(records))
	for _, rec := range records {
		var f entities.Fichaje
		if err := decode(rec.Value, &f); err != nil {
			r.logger.Error("fichaje ilegible en el almacén",
				zap.String("pedido_id", pedidoID),
				zap.String("key", rec.Key),
				zap.Error(err),
			)
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

func (r *FichajeRepository) Save(ctx context.Context, fichaje *entities.Fichaje) error {
	data, err := encode(fichaje)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, fichajesNamespace(fichaje.PedidoID), fichaje.CamareroID, data); err != nil {
		return mapStoreError(err, "guardar fichaje")
	}
	return nil
}
