package controllers

import (
	"net/http"

	"staffing-system/internal/services"
	"staffing-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogController exposes CRUD for one reference collection. The body
// binds straight into the entity, whose tags carry the rules.
type CatalogController[T any] struct {
	service services.CatalogServiceInterface[T]
	logger  *zap.Logger
}

func NewCatalogController[T any](service services.CatalogServiceInterface[T], logger *zap.Logger) *CatalogController[T] {
	return &CatalogController[T]{service: service, logger: logger}
}

func (c *CatalogController[T]) List(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.service.List(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *CatalogController[T]) Find(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.service.Find(reqCtx, ctx.Param("id"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *CatalogController[T]) Create(ctx echo.Context) error {
	item := new(T)
	if err := bindAndValidate(ctx, item); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.service.Create(reqCtx, item)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusCreated)
}

func (c *CatalogController[T]) Update(ctx echo.Context) error {
	item := new(T)
	if err := bindAndValidate(ctx, item); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	res, err := c.service.Update(reqCtx, ctx.Param("id"), item)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, http.StatusOK)
}

func (c *CatalogController[T]) Delete(ctx echo.Context) error {
	reqCtx, cancel := utils.Ctx(ctx, requestTimeoutSeconds)
	defer cancel()

	if err := c.service.Delete(reqCtx, ctx.Param("id")); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, http.StatusOK)
}
