package listeners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"staffing-system/internal/entities"
	"staffing-system/internal/events"
	"staffing-system/internal/repositories"
	"staffing-system/internal/services"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/eventbus"

	"go.uber.org/zap"
)

// NotificationListener reacts to recorded replies: every reply is logged and
// a decline is mailed to the order's coordinator so a replacement can be
// found.
type NotificationListener struct {
	notificationService services.NotificationServiceInterface
	coordinadorRepo     repositories.CatalogRepositoryInterface[entities.Coordinador]
	logger              *zap.Logger
}

func NewNotificationListener(
	notificationService services.NotificationServiceInterface,
	coordinadorRepo repositories.CatalogRepositoryInterface[entities.Coordinador],
	logger *zap.Logger,
) *NotificationListener {
	return &NotificationListener{
		notificationService: notificationService,
		coordinadorRepo:     coordinadorRepo,
		logger:              logger,
	}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.AsignacionRespondidaEventName, l.handleAsignacionRespondida)
	l.logger.Info("NotificationListener suscrito", zap.String("event", events.AsignacionRespondidaEventName))
}

func (l *NotificationListener) handleAsignacionRespondida(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.AsignacionRespondidaEvent)
	if !ok {
		return nil
	}

	l.logger.Info("Respuesta de camarero",
		zap.String("tx_id", e.TxID.String()),
		zap.String("pedido_id", e.Pedido.ID),
		zap.String("camarero_id", e.Asignacion.CamareroID),
		zap.String("estado", string(e.Asignacion.Estado)),
		zap.String("origen", e.Origen),
	)

	if e.Asignacion.Estado != entities.EstadoNoConfirmado {
		return nil
	}
	if !e.Pedido.CoordinadorID.Valid || !l.notificationService.EmailEnabled() {
		return nil
	}

	coordinador, err := l.coordinadorRepo.Find(ctx, e.Pedido.CoordinadorID.String)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			l.logger.Warn("El coordinador del pedido no existe", zap.String("coordinador_id", e.Pedido.CoordinadorID.String))
			return nil
		}
		return fmt.Errorf("no se pudo cargar el coordinador: %w", err)
	}
	if !coordinador.Email.Valid || coordinador.Email.String == "" {
		return nil
	}

	subject := fmt.Sprintf("%s no puede asistir al servicio del %s", e.Asignacion.Nombre, e.Pedido.FechaEvento)
	if err := l.notificationService.EnviarEmail(ctx, coordinador.Email.String, subject, declineBody(e)); err != nil {
		return fmt.Errorf("no se pudo avisar al coordinador: %w", err)
	}
	return nil
}

func declineBody(e events.AsignacionRespondidaEvent) string {
	confirmados := len(services.FilterConfirmed(e.Pedido.Asignaciones))
	necesarios := 0
	for _, t := range e.Pedido.Turnos {
		necesarios += t.Camareros
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hola,\n\n%s ha rechazado el servicio.\n\n", e.Asignacion.Nombre)
	fmt.Fprintf(&sb, "Cliente: %s\n", e.Pedido.Cliente)
	fmt.Fprintf(&sb, "Lugar: %s\n", e.Pedido.Lugar)
	fmt.Fprintf(&sb, "Fecha: %s\n", e.Pedido.FechaEvento)
	fmt.Fprintf(&sb, "Confirmados: %d de %d\n", confirmados, necesarios)
	return sb.String()
}
