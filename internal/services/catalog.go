package services

import (
	"context"
	"time"

	"staffing-system/internal/entities"
	"staffing-system/internal/repositories"
	"staffing-system/pkg/types"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogServiceInterface[T any] interface {
	List(ctx context.Context) ([]T, error)
	Find(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) (*T, error)
	Update(ctx context.Context, id string, item *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// CatalogService is the CRUD shared by the flat reference records. label is
// the singular noun used in messages ("camarero").
type CatalogService[T any, P repositories.CatalogRecord[T]] struct {
	repo   repositories.CatalogRepositoryInterface[T]
	label  string
	logger *zap.Logger
	now    func() time.Time
}

func NewCatalogService[T any, P repositories.CatalogRecord[T]](repo repositories.CatalogRepositoryInterface[T], label string, logger *zap.Logger) *CatalogService[T, P] {
	return &CatalogService[T, P]{repo: repo, label: label, logger: logger, now: time.Now}
}

func NewCamareroService(repo repositories.CatalogRepositoryInterface[entities.Camarero], logger *zap.Logger) CatalogServiceInterface[entities.Camarero] {
	return NewCatalogService[entities.Camarero](repo, "camarero", logger)
}

func NewCoordinadorService(repo repositories.CatalogRepositoryInterface[entities.Coordinador], logger *zap.Logger) CatalogServiceInterface[entities.Coordinador] {
	return NewCatalogService[entities.Coordinador](repo, "coordinador", logger)
}

func NewClienteService(repo repositories.CatalogRepositoryInterface[entities.Cliente], logger *zap.Logger) CatalogServiceInterface[entities.Cliente] {
	return NewCatalogService[entities.Cliente](repo, "cliente", logger)
}

func (s *CatalogService[T, P]) List(ctx context.Context) ([]T, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(err, "")
	}
	return items, nil
}

func (s *CatalogService[T, P]) Find(ctx context.Context, id string) (*T, error) {
	item, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, storeError(err, s.label+" no encontrado")
	}
	return item, nil
}

func (s *CatalogService[T, P]) Create(ctx context.Context, item *T) (*T, error) {
	rec := P(item)
	rec.SetID(uuid.NewString())
	*rec.Base() = types.BaseEntity{}
	rec.Base().Touch(s.now())

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, storeError(err, "")
	}
	s.logger.Info("Registro creado", zap.String("tipo", s.label), zap.String("id", rec.EntityID()))
	return item, nil
}

// Update replaces the record wholesale, keeping its id and creation time.
func (s *CatalogService[T, P]) Update(ctx context.Context, id string, item *T) (*T, error) {
	existing, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, storeError(err, s.label+" no encontrado")
	}

	rec := P(item)
	rec.SetID(id)
	rec.Base().CreatedAt = P(existing).Base().CreatedAt
	rec.Base().Touch(s.now())

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, storeError(err, "")
	}
	return item, nil
}

func (s *CatalogService[T, P]) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, s.label+" no encontrado")
	}
	s.logger.Info("Registro eliminado", zap.String("tipo", s.label), zap.String("id", id))
	return nil
}
