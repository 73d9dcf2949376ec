package services

import (
	"context"
	"fmt"
	"time"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/internal/repositories"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/keymutex"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PedidoServiceInterface interface {
	GetPedidos(ctx context.Context) ([]dto.PedidoDTO, error)
	FindPedido(ctx context.Context, id string) (*dto.PedidoDTO, error)
	CreatePedido(ctx context.Context, payload dto.CreatePedidoDTO) (*dto.PedidoDTO, error)
	UpdatePedido(ctx context.Context, id string, payload dto.CreatePedidoDTO) (*dto.PedidoDTO, error)
	DeletePedido(ctx context.Context, id string) error
}

type PedidoService struct {
	pedidoRepo repositories.PedidoRepositoryInterface
	locker     keymutex.Locker
	logger     *zap.Logger
	now        func() time.Time
}

func NewPedidoService(
	pedidoRepo repositories.PedidoRepositoryInterface,
	locker keymutex.Locker,
	logger *zap.Logger,
) *PedidoService {
	return &PedidoService{
		pedidoRepo: pedidoRepo,
		locker:     locker,
		logger:     logger,
		now:        time.Now,
	}
}

func pedidoLockKey(id string) string {
	return "pedido:" + id
}

func (s *PedidoService) GetPedidos(ctx context.Context) ([]dto.PedidoDTO, error) {
	pedidos, err := s.pedidoRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "")
	}

	out := make([]dto.PedidoDTO, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *toPedidoDTO(&pedidos[i]))
	}
	return out, nil
}

func (s *PedidoService) FindPedido(ctx context.Context, id string) (*dto.PedidoDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, id)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	return toPedidoDTO(p), nil
}

func (s *PedidoService) CreatePedido(ctx context.Context, payload dto.CreatePedidoDTO) (*dto.PedidoDTO, error) {
	turnos, err := buildTurnos(payload.Turnos)
	if err != nil {
		return nil, err
	}

	p := &entities.Pedido{
		ID:           uuid.NewString(),
		Asignaciones: []entities.Asignacion{},
	}
	applyPedidoFields(p, payload, turnos)
	p.Touch(s.now())

	if err := s.pedidoRepo.Save(ctx, p); err != nil {
		s.logger.Error("error al crear el pedido", zap.Error(err))
		return nil, storeError(err, "")
	}

	s.logger.Info("Pedido creado", zap.String("pedido_id", p.ID), zap.String("cliente", p.Cliente))
	return toPedidoDTO(p), nil
}

// UpdatePedido replaces the order fields. The assignment sequence is kept;
// assignments pointing at a shift that no longer exists lose the shift.
func (s *PedidoService) UpdatePedido(ctx context.Context, id string, payload dto.CreatePedidoDTO) (*dto.PedidoDTO, error) {
	turnos, err := buildTurnos(payload.Turnos)
	if err != nil {
		return nil, err
	}

	unlock := s.locker.Lock(pedidoLockKey(id))
	defer unlock()

	p, err := s.pedidoRepo.Find(ctx, id)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}

	applyPedidoFields(p, payload, turnos)
	for i := range p.Asignaciones {
		a := &p.Asignaciones[i]
		if a.Turno.Valid && a.Turno.Int > len(p.Turnos) {
			a.Turno.Valid = false
		}
	}
	p.Touch(s.now())

	if err := s.pedidoRepo.Save(ctx, p); err != nil {
		return nil, storeError(err, "")
	}

	s.logger.Info("Pedido actualizado", zap.String("pedido_id", id))
	return toPedidoDTO(p), nil
}

// DeletePedido removes the pedido only. Its fichajes stay in the store for
// reporting, so GetFichaje on a deleted pedido still returns them, with an
// empty nombre.
func (s *PedidoService) DeletePedido(ctx context.Context, id string) error {
	unlock := s.locker.Lock(pedidoLockKey(id))
	defer unlock()

	if err := s.pedidoRepo.Delete(ctx, id); err != nil {
		return storeError(err, "pedido no encontrado")
	}
	s.logger.Info("Pedido eliminado", zap.String("pedido_id", id))
	return nil
}

// buildTurnos requires one or two shifts numbered 1..n in order.
func buildTurnos(in []dto.TurnoDTO) ([]entities.Turno, error) {
	if len(in) < 1 || len(in) > 2 {
		return nil, apperrors.NewValidationError("un pedido debe tener uno o dos turnos", nil)
	}
	out := make([]entities.Turno, 0, len(in))
	for i, t := range in {
		if t.Numero != i+1 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("los turnos deben numerarse 1..%d en orden", len(in)), nil)
		}
		if t.Camareros < 1 {
			return nil, apperrors.NewValidationError("cada turno necesita al menos un camarero", nil)
		}
		out = append(out, entities.Turno{
			Numero:     t.Numero,
			Camareros:  t.Camareros,
			HoraInicio: t.HoraInicio,
			HoraFin:    t.HoraFin,
		})
	}
	return out, nil
}

func applyPedidoFields(p *entities.Pedido, payload dto.CreatePedidoDTO, turnos []entities.Turno) {
	p.Cliente = payload.Cliente
	p.ClienteID = payload.ClienteID
	p.CoordinadorID = payload.CoordinadorID
	p.Lugar = payload.Lugar
	p.FechaEvento = payload.FechaEvento
	p.Turnos = turnos
	p.Catering = payload.Catering
	p.ColorCamisa = payload.ColorCamisa
	p.Notas = payload.Notas
}
