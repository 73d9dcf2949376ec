package controllers

import (
	"net/http"

	"staffing-system/internal/dto"
	"staffing-system/internal/entities"
	"staffing-system/internal/services"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AsignacionController struct {
	asignacionService services.AsignacionServiceInterface
	logger            *zap.Logger
}

func NewAsignacionController(asignacionService services.AsignacionServiceInterface, logger *zap.Logger) *AsignacionController {
	return &AsignacionController{
		asignacionService: asignacionService,
		logger:            logger,
	}
}

func (c *AsignacionController) CreateAsignacion(ctx echo.Context) error {
	var payload dto.CreateAsignacionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.asignacionService.CreateAsignacion(reqCtx, ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusCreated)
}

func (c *AsignacionController) UpdateAsignacion(ctx echo.Context) error {
	var payload dto.UpdateAsignacionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.asignacionService.UpdateAsignacion(reqCtx, ctx.Param("id"), ctx.Param("camareroId"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *AsignacionController) RemoveAsignacion(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	if err := c.asignacionService.RemoveAsignacion(reqCtx, ctx.Param("id"), ctx.Param("camareroId")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, http.StatusOK)
}

// EnviarNotificacion accepts an empty body: the channel defaults to WhatsApp.
func (c *AsignacionController) EnviarNotificacion(ctx echo.Context) error {
	var payload dto.EnviarNotificacionDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	// The gateway call gets a longer deadline than store-only requests.
	reqCtx, cancel := utils.Ctx(ctx, 3*requestTimeoutSeconds)
	defer cancel()

	res, err := c.asignacionService.EnviarNotificacion(reqCtx, ctx.Param("id"), ctx.Param("camareroId"), payload.Canal)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *AsignacionController) RegistrarRespuesta(ctx echo.Context) error {
	var payload dto.RespuestaDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	outcome, err := entities.ParseEstadoAsignacion(payload.Estado)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError(err.Error(), err), c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.asignacionService.RecordReply(reqCtx, ctx.Param("id"), ctx.Param("camareroId"), outcome, services.OrigenManual)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *AsignacionController) ListConfirmadas(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.asignacionService.ListConfirmed(reqCtx, ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}
