package routes

import (
	"staffing-system/internal/controllers"
	"staffing-system/internal/listeners"
	"staffing-system/internal/metrics"
	"staffing-system/internal/repositories"
	"staffing-system/internal/services"
	"staffing-system/pkg/config"
	"staffing-system/pkg/eventbus"
	"staffing-system/pkg/keymutex"
	"staffing-system/pkg/kvstore"
	"staffing-system/pkg/mailer"
	"staffing-system/pkg/middleware"
	"staffing-system/pkg/ratelimit"
	"staffing-system/pkg/whatsapp"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies are the process-wide collaborators built by main.
type Dependencies struct {
	Config   *config.Config
	Store    kvstore.Store
	Limiter  ratelimit.Limiter
	Locker   keymutex.Locker
	Cache    repositories.CacheRepositoryInterface
	Bus      *eventbus.Bus
	WhatsApp whatsapp.ClientInterface
	Mailer   mailer.Mailer
}

func InitRouter(e *echo.Echo, deps Dependencies, logger *zap.Logger) {
	logger.Info("InitRouter: creando rutas")
	cfg := deps.Config

	// --- 1. REPOSITORIOS ---
	pedidoRepo := repositories.NewPedidoRepository(deps.Store, logger)
	fichajeRepo := repositories.NewFichajeRepository(deps.Store, logger)
	camareroRepo := repositories.NewCamareroRepository(deps.Store, logger)
	coordinadorRepo := repositories.NewCoordinadorRepository(deps.Store, logger)
	clienteRepo := repositories.NewClienteRepository(deps.Store, logger)

	// --- 2. SERVICIOS ---
	waConfigService := services.NewWhatsAppConfigService(cfg.WhatsApp)
	notificationService := services.NewNotificationService(deps.WhatsApp, waConfigService, deps.Mailer, cfg.SMTP.Enabled(), logger)
	qrService := services.NewQRTokenService(cfg.QR.Secret, cfg.QR.TokenTTL, cfg.Server.PublicBaseURL)
	pedidoService := services.NewPedidoService(pedidoRepo, deps.Locker, logger)
	asignacionService := services.NewAsignacionService(pedidoRepo, fichajeRepo, camareroRepo, notificationService, deps.Bus, deps.Locker, logger)
	fichajeService := services.NewFichajeService(pedidoRepo, fichajeRepo, qrService, deps.Locker, logger)
	reportService := services.NewReportService(fichajeService, logger)

	// --- 3. LISTENERS ---
	listeners.NewNotificationListener(notificationService, coordinadorRepo, logger).Register(deps.Bus)

	// --- 4. CONTROLADORES ---
	pedidoCtrl := controllers.NewPedidoController(pedidoService, logger)
	asignacionCtrl := controllers.NewAsignacionController(asignacionService, logger)
	fichajeCtrl := controllers.NewFichajeController(fichajeService, reportService, qrService, logger)
	checkinCtrl := controllers.NewCheckinController(fichajeService, logger)
	whatsappCtrl := controllers.NewWhatsAppController(waConfigService, asignacionService, deps.Cache, cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AppSecret, logger)

	// --- 5. RUTAS ---
	authMW := middleware.NewAuthMiddleware(cfg.Auth.APISecret, logger)
	secureGroup := e.Group("",
		authMW.RequireBearer,
		middleware.RateLimit(deps.Limiter, logger, metrics.RateLimitedTotal.Inc),
		authMW.RequireSecret,
	)

	runPedidoRouter(secureGroup, pedidoCtrl, asignacionCtrl)
	runFichajeRouter(secureGroup, fichajeCtrl)
	runCatalogRouter(secureGroup, "/camareros", controllers.NewCatalogController(services.NewCamareroService(camareroRepo, logger), logger))
	runCatalogRouter(secureGroup, "/coordinadores", controllers.NewCatalogController(services.NewCoordinadorService(coordinadorRepo, logger), logger))
	runCatalogRouter(secureGroup, "/clientes", controllers.NewCatalogController(services.NewClienteService(clienteRepo, logger), logger))
	secureGroup.GET("/verificar-whatsapp-config", whatsappCtrl.VerificarConfig)

	// Public: QR scans and Meta cannot send the bearer header.
	e.POST("/checkin/:token", checkinCtrl.Checkin)
	e.GET("/webhooks/whatsapp", whatsappCtrl.VerifyWebhook)
	e.POST("/webhooks/whatsapp", whatsappCtrl.ReceiveWebhook)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info("InitRouter: rutas creadas")
}
