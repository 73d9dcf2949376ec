package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staffing-system/internal/repositories"
	"staffing-system/internal/routes"
	"staffing-system/pkg/config"
	"staffing-system/pkg/database/postgresql"
	"staffing-system/pkg/eventbus"
	"staffing-system/pkg/keymutex"
	"staffing-system/pkg/kvstore"
	applogger "staffing-system/pkg/logger"
	"staffing-system/pkg/mailer"
	appmw "staffing-system/pkg/middleware"
	"staffing-system/pkg/ratelimit"
	"staffing-system/pkg/utils"
	"staffing-system/pkg/validation"
	"staffing-system/pkg/whatsapp"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const (
	shutdownTimeout    = 15 * time.Second
	cacheSweepInterval = 5 * time.Minute
	startupPingTimeout = 10 * time.Second
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is only dialed when some backend asks for it.
	var redisClient *redis.Client
	if cfg.Store.Backend == "redis" || cfg.RateLimit.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout )
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatal("no se pudo conectar a Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
		}
		defer redisClient.Close()
	}

	var (
		store kvstore.Store
		cache repositories.CacheRepositoryInterface
		pool  *pgxpool.Pool
	)
	switch cfg.Store.Backend {
	case "memory":
		store = kvstore.NewMemoryStore()
	case "redis":
		store = kvstore.NewRedisStore(redisClient, cfg.Store.Prefix)
		cache = repositories.NewRedisCacheRepository(redisClient, cfg.Store.Prefix)
	case "postgres":
		var err error
		pingCtx, cancel := context.WithTimeout(ctx, startupPingTimeout )
		pool, err = postgresql.ConnectDB(pingCtx, cfg.Postgres.DSN, logger)
		cancel()
		if err != nil {
			logger.Fatal("no se pudo conectar a PostgreSQL", zap.Error(err))
		}
		defer pool.Close()
		if err := postgresql.Migrate(pool, logger); err != nil {
			logger.Fatal("no se pudieron aplicar las migraciones", zap.Error(err))
		}
		store = kvstore.NewPostgresStore(pool)
	default:
		logger.Fatal("STORE_BACKEND desconocido", zap.String("backend", cfg.Store.Backend))
	}

	if cache == nil {
		memCache := repositories.NewMemoryCacheRepository()
		go memCache.Cleanup(ctx, cacheSweepInterval)
		cache = memCache
	}

	var limiter ratelimit.Limiter
	if cfg.RateLimit.Backend == "redis" {
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.Store.Prefix+":ratelimit", cfg.RateLimit.Requests, cfg.RateLimit.Window)
	} else {
		limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	locker := keymutex.Noop()
	if cfg.Store.SerializeWrites {
		locker = keymutex.New()
	}

	bus := eventbus.New(logger)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = utils.HTTPErrorHandler(logger)

	e.Use(appmw.Recover(logger))
	e.Use(appmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, appmw.SecretHeader},
		AllowCredentials: true,
		ExposeHeaders:    []string{"Content-Disposition"},
	}))

	routes.InitRouter(e, routes.Dependencies{
		Config:   cfg,
		Store:    store,
		Limiter:  limiter,
		Locker:   locker,
		Cache:    cache,
		Bus:      bus,
		WhatsApp: whatsapp.NewClient(cfg.WhatsApp.APIURL, cfg.WhatsApp.APIVersion, cfg.WhatsApp.PhoneID, cfg.WhatsApp.APIKey),
		Mailer:   mailer.NewSMTPMailer(cfg.SMTP),
	}, logger)

	go func() {
		logger.Info("Servidor iniciado",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Backend),
			zap.Bool("serialize_writes", cfg.Store.SerializeWrites),
		)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Error al iniciar el servidor", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Apagando el servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error durante el apagado", zap.Error(err))
	}
	// Pending reply notifications still go out.
	bus.Wait()
}
