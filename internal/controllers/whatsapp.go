package controllers

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"staffing-system/internal/dto"
	"staffing-system/internal/metrics"
	"staffing-system/internal/repositories"
	"staffing-system/internal/services"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/utils"
	"staffing-system/pkg/whatsapp"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Meta retries deliveries for up to a day.
const webhookDedupTTL = 24 * time.Hour

type WhatsAppController struct {
	configService     services.WhatsAppConfigServiceInterface
	asignacionService services.AsignacionServiceInterface
	dedup             repositories.CacheRepositoryInterface
	verifyToken       string
	appSecret         string
	logger            *zap.Logger
}

func NewWhatsAppController(
	configService services.WhatsAppConfigServiceInterface,
	asignacionService services.AsignacionServiceInterface,
	dedup repositories.CacheRepositoryInterface,
	verifyToken string,
	appSecret string,
	logger *zap.Logger,
) *WhatsAppController {
	if appSecret == "" {
		logger.Warn("WHATSAPP_APP_SECRET vacío: el webhook acepta peticiones sin firma")
	}
	return &WhatsAppController{
		configService:     configService,
		asignacionService: asignacionService,
		dedup:             dedup,
		verifyToken:       verifyToken,
		appSecret:         appSecret,
		logger:            logger,
	}
}

func (c *WhatsAppController) VerificarConfig(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, c.configService.Verify(), http.StatusOK)
}

// VerifyWebhook answers Meta's subscription handshake with the raw
// challenge.
func (c *WhatsAppController) VerifyWebhook(ctx echo.Context) error {
	mode := ctx.QueryParam("hub.mode")
	token := ctx.QueryParam("hub.verify_token")
	challenge := ctx.QueryParam("hub.challenge")

	if c.verifyToken == "" || mode != "subscribe" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(c.verifyToken)) != 1 {
		c.logger.Warn("Verificación de webhook rechazada", zap.String("mode", mode))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusForbidden, "token de verificación incorrecto", apperrors.ErrUnauthorized, nil), c.logger)
	}
	return ctx.String(http.StatusOK, challenge)
}

// ReceiveWebhook records button replies. The signature is checked against
// the raw body before decoding. Past that it always answers 200: any other
// status makes Meta redeliver the whole batch.
func (c *WhatsAppController) ReceiveWebhook(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("cuerpo del webhook no válido", err), c.logger)
	}
	if c.appSecret != "" && !whatsapp.VerifySignature(c.appSecret, body, ctx.Request().Header.Get(whatsapp.SignatureHeader)) {
		metrics.WebhookRepliesTotal.WithLabelValues("firma_invalida").Inc()
		return utils.ErrorResponse(ctx, apperrors.NewUnauthorizedError(apperrors.ErrInvalidSignature), c.logger)
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError("cuerpo del webhook no válido", err), c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	replies := payload.Replies()
	result := dto.WebhookResultDTO{Recibidas: len(replies)}

	for _, reply := range replies {
		if reply.MessageID != "" {
			key := "whatsapp:msg:" + reply.MessageID
			fresh, err := c.dedup.SetNX(reqCtx, key, 1, webhookDedupTTL)
			if err != nil {
				c.logger.Warn("No se pudo comprobar duplicados del webhook", zap.Error(err))
			} else if !fresh {
				result.Duplicadas++
				metrics.WebhookRepliesTotal.WithLabelValues("duplicada").Inc()
				continue
			}
		}

		outcome, pedidoID, camareroID, ok := services.ParseReplyPayload(reply.Payload)
		if !ok {
			c.logger.Debug("Respuesta de WhatsApp ignorada", zap.String("payload", reply.Payload))
			metrics.WebhookRepliesTotal.WithLabelValues("ignorada").Inc()
			continue
		}

		if _, err := c.asignacionService.RecordWhatsAppReply(reqCtx, pedidoID, camareroID, outcome, reply.From); err != nil {
			if errors.Is(err, apperrors.ErrForeignSender) {
				c.logger.Warn("Respuesta de WhatsApp desde un teléfono ajeno",
					zap.String("pedido_id", pedidoID),
					zap.String("camarero_id", camareroID),
					zap.String("from", reply.From),
				)
				result.Rechazadas++
				metrics.WebhookRepliesTotal.WithLabelValues("remitente_desconocido").Inc()
				continue
			}
			c.logger.Warn("No se pudo registrar la respuesta de WhatsApp",
				zap.String("pedido_id", pedidoID),
				zap.String("camarero_id", camareroID),
				zap.Error(err),
			)
			metrics.WebhookRepliesTotal.WithLabelValues("error").Inc()
			// Store outages are worth a redelivery; rejected transitions are not.
			var httpErr *apperrors.HttpError
			if reply.MessageID != "" && errors.As(err, &httpErr) && httpErr.Code >= http.StatusInternalServerError {
				_ = c.dedup.Del(reqCtx, "whatsapp:msg:"+reply.MessageID)
			}
			continue
		}

		result.Procesadas++
		metrics.WebhookRepliesTotal.WithLabelValues("procesada").Inc()
	}

	return utils.SuccessResponse(ctx, result, http.StatusOK)
}
