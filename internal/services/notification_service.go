package services

import (
	"context"
	"fmt"
	"strings"

	"staffing-system/internal/entities"
	"staffing-system/internal/metrics"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/mailer"
	"staffing-system/pkg/whatsapp"

	"go.uber.org/zap"
)

const (
	CanalWhatsApp = "whatsapp"
	CanalEmail    = "email"

	ModoAutomatico = "automatico"
	ModoManual     = "manual"

	ReplyConfirmar = "CONFIRMAR"
	ReplyRechazar  = "RECHAZAR"
)

// DispatchResult describes how a convocation left the system.
type DispatchResult struct {
	Canal     string
	Modo      string
	Enlace    string
	MessageID string
}

type NotificationServiceInterface interface {
	EnviarConvocatoria(ctx context.Context, pedido *entities.Pedido, asignacion entities.Asignacion, camarero *entities.Camarero, canal string) (*DispatchResult, error)
	EnviarEmail(ctx context.Context, to, subject, body string) error
	EmailEnabled() bool
}

type NotificationService struct {
	waClient     whatsapp.ClientInterface
	waConfig     WhatsAppConfigServiceInterface
	mailer       mailer.Mailer
	emailEnabled bool
	logger       *zap.Logger
}

func NewNotificationService(
	waClient whatsapp.ClientInterface,
	waConfig WhatsAppConfigServiceInterface,
	m mailer.Mailer,
	emailEnabled bool,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		waClient:     waClient,
		waConfig:     waConfig,
		mailer:       m,
		emailEnabled: emailEnabled,
		logger:       logger,
	}
}

// ReplyPayload is the button id the webhook receives back.
func ReplyPayload(accion, pedidoID, camareroID string) string {
	return accion + ":" + pedidoID + ":" + camareroID
}

// ParseReplyPayload is the inverse of ReplyPayload.
func ParseReplyPayload(payload string) (outcome entities.EstadoAsignacion, pedidoID, camareroID string, ok bool) {
	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	switch parts[0] {
	case ReplyConfirmar:
		outcome = entities.EstadoConfirmado
	case ReplyRechazar:
		outcome = entities.EstadoNoConfirmado
	default:
		return "", "", "", false
	}
	return outcome, parts[1], parts[2], true
}

func convocatoriaText(pedido *entities.Pedido, asignacion entities.Asignacion) string {
	inicio, fin := pedido.HorarioDe(asignacion)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Hola %s, tenemos un servicio para ti.\n\n", asignacion.Nombre)
	fmt.Fprintf(&sb, "Cliente: %s\n", pedido.Cliente)
	fmt.Fprintf(&sb, "Lugar: %s\n", pedido.Lugar)
	fmt.Fprintf(&sb, "Fecha: %s\n", pedido.FechaEvento)
	fmt.Fprintf(&sb, "Horario: %s - %s\n", inicio, fin)
	if pedido.ColorCamisa != "" {
		fmt.Fprintf(&sb, "Camisa: %s\n", pedido.ColorCamisa)
	}
	sb.WriteString("\n¿Puedes confirmar tu asistencia?")
	return sb.String()
}

func (s *NotificationService) EnviarConvocatoria(ctx context.Context, pedido *entities.Pedido, asignacion entities.Asignacion, camarero *entities.Camarero, canal string) (*DispatchResult, error) {
	if canal == "" {
		canal = CanalWhatsApp
	}
	text := convocatoriaText(pedido, asignacion)

	switch canal {
	case CanalEmail:
		if !camarero.Email.Valid || camarero.Email.String == "" {
			return nil, apperrors.NewValidationError("el camarero no tiene email", nil)
		}
		if !s.emailEnabled {
			return nil, apperrors.NewValidationError("el envío por email no está configurado", nil)
		}
		subject := fmt.Sprintf("Servicio %s - %s", pedido.FechaEvento, pedido.Cliente)
		if err := s.mailer.Send(ctx, camarero.Email.String, subject, text); err != nil {
			metrics.NotificacionesTotal.WithLabelValues(CanalEmail, ModoAutomatico, "error").Inc()
			return nil, apperrors.NewUpstreamError("no se pudo enviar el email", err)
		}
		metrics.NotificacionesTotal.WithLabelValues(CanalEmail, ModoAutomatico, "ok").Inc()
		return &DispatchResult{Canal: CanalEmail, Modo: ModoAutomatico}, nil

	case CanalWhatsApp:
		if strings.TrimSpace(camarero.Telefono) == "" {
			return nil, apperrors.NewValidationError("el camarero no tiene teléfono", nil)
		}
		if !s.waConfig.AutomaticDispatch() {
			metrics.NotificacionesTotal.WithLabelValues(CanalWhatsApp, ModoManual, "ok").Inc()
			return &DispatchResult{
				Canal:  CanalWhatsApp,
				Modo:   ModoManual,
				Enlace: whatsapp.ManualLink(camarero.Telefono, text),
			}, nil
		}

		buttons := []whatsapp.ReplyButton{
			{ID: ReplyPayload(ReplyConfirmar, pedido.ID, asignacion.CamareroID), Title: "Confirmo"},
			{ID: ReplyPayload(ReplyRechazar, pedido.ID, asignacion.CamareroID), Title: "No puedo"},
		}
		msgID, err := s.waClient.SendButtons(ctx, camarero.Telefono, text, buttons)
		if err != nil {
			metrics.NotificacionesTotal.WithLabelValues(CanalWhatsApp, ModoAutomatico, "error").Inc()
			s.logger.Error("fallo al enviar WhatsApp",
				zap.String("pedido_id", pedido.ID),
				zap.String("camarero_id", asignacion.CamareroID),
				zap.Error(err),
			)
			return nil, apperrors.NewUpstreamError("no se pudo enviar el WhatsApp", err)
		}
		metrics.NotificacionesTotal.WithLabelValues(CanalWhatsApp, ModoAutomatico, "ok").Inc()
		return &DispatchResult{Canal: CanalWhatsApp, Modo: ModoAutomatico, MessageID: msgID}, nil
	}

	return nil, apperrors.NewValidationError("canal de envío desconocido: "+canal, nil)
}

func (s *NotificationService) EnviarEmail(ctx context.Context, to, subject, body string) error {
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		metrics.NotificacionesTotal.WithLabelValues(CanalEmail, ModoAutomatico, "error").Inc()
		return err
	}
	metrics.NotificacionesTotal.WithLabelValues(CanalEmail, ModoAutomatico, "ok").Inc()
	return nil
}

func (s *NotificationService) EmailEnabled() bool {
	return s.emailEnabled
}
