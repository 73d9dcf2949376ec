package controllers

import (
	"net/http"
	"strconv"

	"staffing-system/internal/dto"
	"staffing-system/internal/services"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type FichajeController struct {
	fichajeService services.FichajeServiceInterface
	reportService  services.ReportServiceInterface
	qrService      services.QRTokenServiceInterface
	logger         *zap.Logger
}

func NewFichajeController(
	fichajeService services.FichajeServiceInterface,
	reportService services.ReportServiceInterface,
	qrService services.QRTokenServiceInterface,
	logger *zap.Logger,
) *FichajeController {
	return &FichajeController{
		fichajeService: fichajeService,
		reportService:  reportService,
		qrService:      qrService,
		logger:         logger,
	}
}

func (c *FichajeController) ListFichajes(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.fichajeService.ListFichajes(reqCtx, ctx.Param("pedidoId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *FichajeController) Resumen(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.fichajeService.Resumen(reqCtx, ctx.Param("pedidoId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *FichajeController) Export(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, 3*requestTimeoutSeconds)
	defer cancel()

	buf, fileName, err := c.reportService.ExportFichajes(reqCtx, ctx.Param("pedidoId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	return ctx.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (c *FichajeController) GetFichaje(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.fichajeService.GetFichaje(reqCtx, ctx.Param("pedidoId"), ctx.Param("camareroId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *FichajeController) SetFichaje(ctx echo.Context) error {
	var payload dto.SetFichajeDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.fichajeService.SetFichaje(reqCtx, ctx.Param("pedidoId"), ctx.Param("camareroId"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

// GetQR answers with the signed link, or with the QR image itself when
// called with ?format=png (optional &size=, in pixels).
func (c *FichajeController) GetQR(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.fichajeService.GenerarQR(reqCtx, ctx.Param("pedidoId"), ctx.Param("camareroId"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if ctx.QueryParam("format") != "png" {
		return utils.SuccessResponse(ctx, res, http.StatusOK)
	}

	size := defaultQRSize
	if raw := ctx.QueryParam("size"); raw != "" {
		size, err = strconv.Atoi(raw)
		if err != nil || size < 64 || size > maxQRSize {
			return utils.ErrorResponse(ctx, apperrors.NewValidationError("el tamaño del QR debe estar entre 64 y 1024", err), c.logger)
		}
	}

	png, err := c.qrService.PNG(res.Enlace, size)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
