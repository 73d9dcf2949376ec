package repositories

import (
	"context"

	"staffing-system/internal/entities"
	"staffing-system/pkg/kvstore"
	"staffing-system/pkg/types"

	"go.uber.org/zap"
)

const (
	CamarerosNamespace     = "camareros"
	CoordinadoresNamespace = "coordinadores"
	ClientesNamespace      = "clientes"
)

// CatalogRecord is satisfied by the pointer types of the flat reference
// entities (camareros, coordinadores, clientes).
type CatalogRecord[T any] interface {
	*T
	EntityID() string
	SetID(id string)
	Validate() error
	Base() *types.BaseEntity
}

type CatalogRepositoryInterface[T any] interface {
	List(ctx context.Context) ([]T, error)
	Find(ctx context.Context, id string) (*T, error)
	Save(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

type CatalogRepository[T any, P CatalogRecord[T]] struct {
	store     kvstore.Store
	namespace string
	logger    *zap.Logger
}

func NewCatalogRepository[T any, P CatalogRecord[T]](store kvstore.Store, namespace string, logger *zap.Logger) *CatalogRepository[T, P] {
	return &CatalogRepository[T, P]{store: store, namespace: namespace, logger: logger}
}

func NewCamareroRepository(store kvstore.Store, logger *zap.Logger) CatalogRepositoryInterface[entities.Camarero] {
	return NewCatalogRepository[entities.Camarero](store, CamarerosNamespace, logger)
}

func NewCoordinadorRepository(store kvstore.Store, logger *zap.Logger) CatalogRepositoryInterface[entities.Coordinador] {
	return NewCatalogRepository[entities.Coordinador](store, CoordinadoresNamespace, logger)
}

func NewClienteRepository(store kvstore.Store, logger *zap.Logger) CatalogRepositoryInterface[entities.Cliente] {
	return NewCatalogRepository[entities.Cliente](store, ClientesNamespace, logger)
}

func (r *CatalogRepository[T, P]) List(ctx context.Context) ([]T, error) {
	records, err := r.store.List(ctx, r.namespace)
	if err != nil {
		return nil, mapStoreError(err, "listar "+r.namespace)
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		var item T
		if err := decode(rec.Value, P(&item)); err != nil {
			r.logger.Error("registro ilegible en el almacén",
				zap.String("namespace", r.namespace),
				zap.String("key", rec.Key),
				zap.Error(err),
			)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *CatalogRepository[T, P]) Find(ctx context.Context, id string) (*T, error) {
	data, err := r.store.Get(ctx, r.namespace, id)
	if err != nil {
		return nil, mapStoreError(err, r.namespace+" "+id)
	}
	var item T
	if err := decode(data, P(&item)); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CatalogRepository[T, P]) Save(ctx context.Context, item *T) error {
	data, err := encode(item)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, r.namespace, P(item).EntityID(), data); err != nil {
		return mapStoreError(err, "guardar en "+r.namespace)
	}
	return nil
}

func (r *CatalogRepository[T, P]) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.namespace, id); err != nil {
		return mapStoreError(err, "borrar de "+r.namespace)
	}
	return nil
}
