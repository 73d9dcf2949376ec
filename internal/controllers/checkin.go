package controllers

import (
	"net/http"

	"staffing-system/internal/services"
	"staffing-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CheckinController serves the public link encoded in the QR codes. The
// token in the path is the only credential.
type CheckinController struct {
	fichajeService services.FichajeServiceInterface
	logger         *zap.Logger
}

func NewCheckinController(fichajeService services.FichajeServiceInterface, logger *zap.Logger) *CheckinController {
	return &CheckinController{fichajeService: fichajeService, logger: logger}
}

func (c *CheckinController) Checkin(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.fichajeService.RegistrarCheckin(reqCtx, ctx.Param("token"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}
