package repositories

import (
	"context"

	"staffing-system/internal/entities"
	"staffing-system/pkg/kvstore"

	"go.uber.org/zap"
)

const pedidosNamespace = "pedidos"

type PedidoRepositoryInterface interface {
	List(ctx context.Context) ([]entities.Pedido, error)
	Find(ctx context.Context, id string) (*entities.Pedido, error)
	Save(ctx context.Context, pedido *entities.Pedido) error
	Delete(ctx context.Context, id string) error
}

type PedidoRepository struct {
	store  kvstore.Store
	logger *zap.Logger
}

func NewPedidoRepository(store kvstore.Store, logger *zap.Logger) PedidoRepositoryInterface {
	return &PedidoRepository{store: store, logger: logger}
}

func (r *PedidoRepository) List(ctx context.Context) ([]entities.Pedido, error) {
	records, err := r.store.List(ctx, pedidosNamespace)
	if err != nil {
		return nil, mapStoreError(err, "listar pedidos")
	}

	pedidos := make([]entities.Pedido, 0, len(records))
	for _, rec := range records {
		var p entities.Pedido
		if err := decode(rec.Value, &p); err != nil {
			// One bad record must not hide the rest of the list.
			r.logger.Error("pedido ilegible en el almacén", zap.String("key", rec.Key), zap.Error(err))
			continue
		}
		pedidos = append(pedidos, p)
	}
	return pedidos, nil
}

func (r *PedidoRepository) Find(ctx context.Context, id string) (*entities.Pedido, error) {
	data, err := r.store.Get(ctx, pedidosNamespace, id)
	if err != nil {
		return nil, mapStoreError(err, "pedido "+id)
	}
	var p entities.Pedido
	if err := decode(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PedidoRepository) Save(ctx context.Context, pedido *entities.Pedido) error {
	data, err := encode(pedido)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, pedidosNamespace, pedido.ID, data); err != nil {
		return mapStoreError(err, "guardar pedido "+pedido.ID)
	}
	return nil
}

func (r *PedidoRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, pedidosNamespace, id); err != nil {
		return mapStoreError(err, "borrar pedido "+id)
	}
	return nil
}
