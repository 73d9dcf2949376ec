package routes

import (
	"staffing-system/internal/controllers"

	"github.com/labstack/echo/v4"
)

func runPedidoRouter(secureGroup *echo.Group, pedidoCtrl *controllers.PedidoController, asignacionCtrl *controllers.AsignacionController) {
	pedidos := secureGroup.Group("/pedidos")

	pedidos.GET("", pedidoCtrl.GetPedidos)
	pedidos.POST("", pedidoCtrl.CreatePedido)
	pedidos.GET("/:id", pedidoCtrl.FindPedido)
	pedidos.PUT("/:id", pedidoCtrl.UpdatePedido)
	pedidos.DELETE("/:id", pedidoCtrl.DeletePedido)

	asignaciones := pedidos.Group("/:id/asignaciones")
	asignaciones.POST("", asignacionCtrl.CreateAsignacion)
	asignaciones.GET("/confirmadas", asignacionCtrl.ListConfirmadas)
	asignaciones.PATCH("/:camareroId", asignacionCtrl.UpdateAsignacion)
	asignaciones.DELETE("/:camareroId", asignacionCtrl.RemoveAsignacion)
	asignaciones.POST("/:camareroId/enviar", asignacionCtrl.EnviarNotificacion)
	asignaciones.PUT("/:camareroId/respuesta", asignacionCtrl.RegistrarRespuesta)
}
