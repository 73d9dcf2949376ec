package routes

import (
	"staffing-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runCatalogRouter[T any](secureGroup *echo.Group, prefix string, ctrl *controllers.CatalogController[T]) {
	g := secureGroup.Group(prefix)

	g.GET("", ctrl.List)
	g.POST("", ctrl.Create)
	g.GET("/:id", ctrl.Find)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
}
