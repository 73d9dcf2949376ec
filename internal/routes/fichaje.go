package routes

import (
	"staffing-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runFichajeRouter(secureGroup *echo.Group, fichajeCtrl *controllers.FichajeController) {
	fichajes := secureGroup.Group("/fichajes")

	fichajes.GET("/:pedidoId", fichajeCtrl.ListFichajes)
	fichajes.GET("/:pedidoId/resumen", fichajeCtrl.Resumen)
	fichajes.GET("/:pedidoId/export", fichajeCtrl.Export)
	fichajes.GET("/:pedidoId/:camareroId", fichajeCtrl.GetFichaje)
	fichajes.PUT("/:pedidoId/:camareroId", fichajeCtrl.SetFichaje)

	secureGroup.GET("/qr-tokens/:pedidoId/:camareroId", fichajeCtrl.GetQR)
}
