package controllers

import (
	"net/http"

	"staffing-system/internal/dto"
	"staffing-system/internal/services"
	apperrors "staffing-system/pkg/errors"
	"staffing-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const requestTimeoutSeconds = 10

type PedidoController struct {
	pedidoService services.PedidoServiceInterface
	logger        *zap.Logger
}

func NewPedidoController(pedidoService services.PedidoServiceInterface, logger *zap.Logger) *PedidoController {
	return &PedidoController{
		pedidoService: pedidoService,
		logger:        logger,
	}
}

// bindAndValidate decodes the body into payload and runs the struct rules.
func bindAndValidate(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return apperrors.NewValidationError("cuerpo de la petición no válido", err)
	}
	return c.Validate(payload)
}

func (c *PedidoController) GetPedidos(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.pedidoService.GetPedidos(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *PedidoController) FindPedido(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.pedidoService.FindPedido(reqCtx, ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *PedidoController) CreatePedido(ctx echo.Context) error {
	var payload dto.CreatePedidoDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.pedidoService.CreatePedido(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusCreated)
}

func (c *PedidoController) UpdatePedido(ctx echo.Context) error {
	var payload dto.CreatePedidoDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.pedidoService.UpdatePedido(reqCtx, ctx.Param("id"), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *PedidoController) DeletePedido(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	if err := c.pedidoService.DeletePedido(reqCtx, ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, http.StatusOK)
}
