package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/internal/events"
	"staffing-system/internal/metrics"
	"staffing-system/internal/repositories"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/eventbus"
	"staffing-system/pkg/keymutex"
	"staffing-system/pkg/utils"
	"staffing-system/pkg/whatsapp"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	OrigenManual   = "manual"
	OrigenWhatsApp = "whatsapp"
)

type EventPublisher interface {
	Publish(ctx context.Context, event eventbus.Event)
}

type AsignacionServiceInterface interface {
	CreateAsignacion(ctx context.Context, pedidoID string, payload dto.CreateAsignacionDTO) (*dto.AsignacionDTO, error)
	MarkSent(ctx context.Context, pedidoID, camareroID string) (*dto.AsignacionDTO, error)
	RecordReply(ctx context.Context, pedidoID, camareroID string, outcome entities.EstadoAsignacion, origen string) (*dto.AsignacionDTO, error)
	RecordWhatsAppReply(ctx context.Context, pedidoID, camareroID string, outcome entities.EstadoAsignacion, from string) (*dto.AsignacionDTO, error)
	ResetToPending(ctx context.Context, pedidoID, camareroID string) (*dto.AsignacionDTO, error)
	UpdateAsignacion(ctx context.Context, pedidoID, camareroID string, payload dto.UpdateAsignacionDTO) (*dto.AsignacionDTO, error)
	RemoveAsignacion(ctx context.Context, pedidoID, camareroID string) error
	ListConfirmed(ctx context.Context, pedidoID string) ([]dto.AsignacionDTO, error)
	EnviarNotificacion(ctx context.Context, pedidoID, camareroID, canal string) (*dto.EnvioResultDTO, error)
}

type AsignacionService struct {
	pedidoRepo   repositories.PedidoRepositoryInterface
	fichajeRepo  repositories.FichajeRepositoryInterface
	camareroRepo repositories.CatalogRepositoryInterface[entities.Camarero]
	notifier     NotificationServiceInterface
	bus          EventPublisher
	locker       keymutex.Locker
	logger       *zap.Logger
	now          func() time.Time
}

func NewAsignacionService(
	pedidoRepo repositories.PedidoRepositoryInterface,
	fichajeRepo repositories.FichajeRepositoryInterface,
	camareroRepo repositories.CatalogRepositoryInterface[entities.Camarero],
	notifier NotificationServiceInterface,
	bus EventPublisher,
	locker keymutex.Locker,
	logger *zap.Logger,
) *AsignacionService {
	return &AsignacionService{
		pedidoRepo:   pedidoRepo,
		fichajeRepo:  fichajeRepo,
		camareroRepo: camareroRepo,
		notifier:     notifier,
		bus:          bus,
		locker:       locker,
		logger:       logger,
		now:          time.Now,
	}
}

// FilterConfirmed returns, in order, the assignments whose status is
// confirmado.
func FilterConfirmed(asignaciones []entities.Asignacion) []entities.Asignacion {
	out := make([]entities.Asignacion, 0, len(asignaciones))
	for _, a := range asignaciones {
		if a.Estado == entities.EstadoConfirmado {
			out = append(out, a)
		}
	}
	return out
}

// mutate runs fn on the stored pedido and the index of the camarero's
// assignment, then writes the pedido back. fn returning changed=false skips
// the write.
func (s *AsignacionService) mutate(
	ctx context.Context,
	pedidoID, camareroID string,
	fn func(p *entities.Pedido, idx int) (changed bool, err error),
) (*entities.Pedido, int, error) {
	unlock := s.locker.Lock(pedidoLockKey(pedidoID))
	defer unlock()

	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, -1, storeError(err, "pedido no encontrado")
	}
	idx, ok := p.FindAsignacion(camareroID)
	if !ok {
		return nil, -1, apperrors.NewNotFoundError("el camarero no está asignado a este pedido")
	}

	changed, err := fn(p, idx)
	if err != nil {
		return nil, -1, err
	}
	if !changed {
		return p, idx, nil
	}

	p.Touch(s.now())
	if err := s.pedidoRepo.Save(ctx, p); err != nil {
		return nil, -1, storeError(err, "")
	}
	return p, idx, nil
}

func (s *AsignacionService) CreateAsignacion(ctx context.Context, pedidoID string, payload dto.CreateAsignacionDTO) (*dto.AsignacionDTO, error) {
	nombre, numero := payload.Nombre, payload.Numero
	if nombre == "" {
		camarero, err := s.camareroRepo.Find(ctx, payload.CamareroID)
		if err != nil {
			return nil, storeError(err, "camarero no encontrado")
		}
		nombre = camarero.DisplayName()
		if numero == "" {
			numero = camarero.Numero
		}
	}

	unlock := s.locker.Lock(pedidoLockKey(pedidoID))
	defer unlock()

	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	if _, exists := p.FindAsignacion(payload.CamareroID); exists {
		return nil, apperrors.NewValidationError(apperrors.ErrDuplicateAssignment.Error(), apperrors.ErrDuplicateAssignment)
	}
	if payload.Turno.Valid {
		if _, ok := p.Turno(payload.Turno.Int); !ok {
			return nil, apperrors.NewValidationError("el pedido no tiene ese turno", nil)
		}
	}

	a := entities.Asignacion{
		CamareroID: payload.CamareroID,
		Nombre:     nombre,
		Numero:     numero,
		Estado:     entities.EstadoPendiente,
		Turno:      payload.Turno,
	}
	p.Asignaciones = append(p.Asignaciones, a)
	p.Touch(s.now())

	if err := s.pedidoRepo.Save(ctx, p); err != nil {
		return nil, storeError(err, "")
	}

	metrics.AsignacionTransitionsTotal.WithLabelValues("crear", string(a.Estado)).Inc()
	s.logger.Info("Camarero asignado",
		zap.String("pedido_id", pedidoID),
		zap.String("camarero_id", a.CamareroID),
	)
	res := toAsignacionDTO(a)
	return &res, nil
}

// MarkSent moves pendiente to enviado. Calling it again on enviado changes
// nothing; on a replied assignment it is an invalid transition.
func (s *AsignacionService) MarkSent(ctx context.Context, pedidoID, camareroID string) (*dto.AsignacionDTO, error) {
	return s.markSent(ctx, pedidoID, camareroID, false)
}

// markSent with dispatched=true runs after the message already left: a reply
// that arrived in the meantime wins and is returned as is.
func (s *AsignacionService) markSent(ctx context.Context, pedidoID, camareroID string, dispatched bool) (*dto.AsignacionDTO, error) {
	p, idx, err := s.mutate(ctx, pedidoID, camareroID, func(p *entities.Pedido, idx int) (bool, error) {
		a := &p.Asignaciones[idx]
		if a.Estado == entities.EstadoEnviado || (dispatched && a.Estado.IsReply()) {
			return false, nil
		}
		if !entities.ValidTransition(entities.AccionEnviar, a.Estado) {
			return false, invalidTransition("la asignación ya tiene respuesta; reiníciala a pendiente antes de reenviar")
		}
		a.Estado = entities.AccionEnviar.Destino()
		metrics.AsignacionTransitionsTotal.WithLabelValues(string(entities.AccionEnviar), string(a.Estado)).Inc()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	res := toAsignacionDTO(p.Asignaciones[idx])
	return &res, nil
}

// RecordReply stores confirmado or no_confirmado. A confirmation provisions
// the empty fichaje for the pair. Repeating the same reply is a no-op.
func (s *AsignacionService) RecordReply(ctx context.Context, pedidoID, camareroID string, outcome entities.EstadoAsignacion, origen string) (*dto.AsignacionDTO, error) {
	accion, ok := entities.AccionRespuesta(outcome)
	if !ok {
		return nil, apperrors.NewValidationError("la respuesta debe ser confirmado o no_confirmado", nil)
	}

	var replied bool
	p, idx, err := s.mutate(ctx, pedidoID, camareroID, func(p *entities.Pedido, idx int) (bool, error) {
		a := &p.Asignaciones[idx]
		if a.Estado == outcome {
			return false, nil
		}
		if !entities.ValidTransition(accion, a.Estado) {
			return false, invalidTransition("la asignación ya tiene otra respuesta; reiníciala a pendiente para cambiarla")
		}
		if outcome == entities.EstadoConfirmado {
			if err := s.provisionFichaje(ctx, pedidoID, camareroID); err != nil {
				return false, err
			}
		}
		a.Estado = accion.Destino()
		replied = true
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	a := p.Asignaciones[idx]
	if replied {
		metrics.AsignacionTransitionsTotal.WithLabelValues(string(accion), string(a.Estado)).Inc()
		s.logger.Info("Respuesta registrada",
			zap.String("pedido_id", pedidoID),
			zap.String("camarero_id", camareroID),
			zap.String("estado", string(a.Estado)),
			zap.String("origen", origen),
		)
		s.bus.Publish(ctx, events.AsignacionRespondidaEvent{
			TxID:       uuid.New(),
			Pedido:     *p,
			Asignacion: a,
			Origen:     origen,
			At:         s.now(),
		})
	}

	res := toAsignacionDTO(a)
	return &res, nil
}

// RecordWhatsAppReply records a button reply only when it comes from the
// camarero's own phone. Button ids are visible to anyone the message is
// forwarded to.
func (s *AsignacionService) RecordWhatsAppReply(ctx context.Context, pedidoID, camareroID string, outcome entities.EstadoAsignacion, from string) (*dto.AsignacionDTO, error) {
	camarero, err := s.camareroRepo.Find(ctx, camareroID)
	if err != nil {
		return nil, storeError(err, "camarero no encontrado")
	}
	expected := whatsapp.NormalizePhone(camarero.Telefono)
	if expected == "" || whatsapp.NormalizePhone(from) != expected {
		return nil, apperrors.NewHttpError(http.StatusForbidden, apperrors.ErrForeignSender.Error(), apperrors.ErrForeignSender, map[string]interface{}{
			"pedido_id":   pedidoID,
			"camarero_id": camareroID,
		})
	}
	return s.RecordReply(ctx, pedidoID, camareroID, outcome, OrigenWhatsApp)
}

// provisionFichaje creates the empty time-clock entry unless one exists.
func (s *AsignacionService) provisionFichaje(ctx context.Context, pedidoID, camareroID string) error {
	_, err := s.fichajeRepo.Find(ctx, pedidoID, camareroID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return storeError(err, "")
	}

	f := entities.NewFichaje(pedidoID, camareroID)
	f.UpdatedAt = s.now()
	if err := s.fichajeRepo.Save(ctx, &f); err != nil {
		return storeError(err, "")
	}
	return nil
}

func (s *AsignacionService) ResetToPending(ctx context.Context, pedidoID, camareroID string) (*dto.AsignacionDTO, error) {
	return s.UpdateAsignacion(ctx, pedidoID, camareroID, dto.UpdateAsignacionDTO{
		Estado: utils.ToPtr(string(entities.EstadoPendiente)),
	})
}

// UpdateAsignacion edits shift and hour overrides and, with estado
// "pendiente", resets the assignment from any state.
func (s *AsignacionService) UpdateAsignacion(ctx context.Context, pedidoID, camareroID string, payload dto.UpdateAsignacionDTO) (*dto.AsignacionDTO, error) {
	if payload.Estado != nil && utils.SafeDeref(payload.Estado) != string(entities.EstadoPendiente) {
		return nil, apperrors.NewValidationError("solo se puede reiniciar el estado a pendiente", nil)
	}

	p, idx, err := s.mutate(ctx, pedidoID, camareroID, func(p *entities.Pedido, idx int) (bool, error) {
		a := &p.Asignaciones[idx]
		changed := false

		if payload.Turno.Set {
			if payload.Turno.Valid {
				if _, ok := p.Turno(payload.Turno.Int.Int); !ok {
					return false, apperrors.NewValidationError("el pedido no tiene ese turno", nil)
				}
				a.Turno = null.IntFrom(payload.Turno.Int.Int)
			} else {
				a.Turno = null.Int{}
			}
			changed = true
		}
		if payload.HoraEntrada.Set {
			a.HoraEntrada = payload.HoraEntrada.String
			changed = true
		}
		if payload.HoraSalida.Set {
			a.HoraSalida = payload.HoraSalida.String
			changed = true
		}
		if payload.Estado != nil && a.Estado != entities.EstadoPendiente {
			a.Estado = entities.AccionReiniciar.Destino()
			metrics.AsignacionTransitionsTotal.WithLabelValues(string(entities.AccionReiniciar), string(a.Estado)).Inc()
			changed = true
		}
		return changed, nil
	})
	if err != nil {
		return nil, err
	}

	res := toAsignacionDTO(p.Asignaciones[idx])
	return &res, nil
}

// RemoveAsignacion drops the assignment. Its fichaje, if any, is kept for
// reporting.
func (s *AsignacionService) RemoveAsignacion(ctx context.Context, pedidoID, camareroID string) error {
	_, _, err := s.mutate(ctx, pedidoID, camareroID, func(p *entities.Pedido, idx int) (bool, error) {
		p.Asignaciones = append(p.Asignaciones[:idx], p.Asignaciones[idx+1:]...)
		return true, nil
	})
	if err != nil {
		return err
	}
	s.logger.Info("Asignación eliminada", zap.String("pedido_id", pedidoID), zap.String("camarero_id", camareroID))
	return nil
}

func (s *AsignacionService) ListConfirmed(ctx context.Context, pedidoID string) ([]dto.AsignacionDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	return toAsignacionDTOs(FilterConfirmed(p.Asignaciones)), nil
}

// EnviarNotificacion dispatches the convocation and then marks the
// assignment as sent. A gateway failure leaves the status untouched.
func (s *AsignacionService) EnviarNotificacion(ctx context.Context, pedidoID, camareroID, canal string) (*dto.EnvioResultDTO, error) {
	p, err := s.pedidoRepo.Find(ctx, pedidoID)
	if err != nil {
		return nil, storeError(err, "pedido no encontrado")
	}
	idx, ok := p.FindAsignacion(camareroID)
	if !ok {
		return nil, apperrors.NewNotFoundError("el camarero no está asignado a este pedido")
	}
	a := p.Asignaciones[idx]
	if a.Estado.IsReply() {
		return nil, invalidTransition("la asignación ya tiene respuesta; reiníciala a pendiente antes de reenviar")
	}

	camarero, err := s.camareroRepo.Find(ctx, camareroID)
	if err != nil {
		return nil, storeError(err, "camarero no encontrado")
	}

	result, err := s.notifier.EnviarConvocatoria(ctx, p, a, camarero, canal)
	if err != nil {
		return nil, err
	}

	sent, err := s.markSent(ctx, pedidoID, camareroID, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Convocatoria enviada",
		zap.String("pedido_id", pedidoID),
		zap.String("camarero_id", camareroID),
		zap.String("canal", result.Canal),
		zap.String("modo", result.Modo),
	)
	return &dto.EnvioResultDTO{
		Asignacion: *sent,
		Canal:      result.Canal,
		Modo:       result.Modo,
		Enlace:     result.Enlace,
		MessageID:  result.MessageID,
	}, nil
}
