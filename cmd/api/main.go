package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cllmenate/inventory-management/internal/application/auth"
	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/application/metrics"
	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/application/usecase"
	"github.com/cllmenate/inventory-management/internal/infrastructure/cache"
	infrapdf "github.com/cllmenate/inventory-management/internal/infrastructure/pdf"
	"github.com/cllmenate/inventory-management/internal/infrastructure/postgres"
	"github.com/cllmenate/inventory-management/internal/infrastructure/queue"
	"github.com/cllmenate/inventory-management/internal/infrastructure/storage"
	httpRouter "github.com/cllmenate/inventory-management/internal/interfaces/http"
	"github.com/cllmenate/inventory-management/pkg/config"
	"github.com/cllmenate/inventory-management/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		Component: "api",
	})
	zl := log.Zerolog()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), zl); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, 0)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()
	kv := cache.NewRedisStore(rdb)

	artifacts, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de artefactos")
	}

	renderer, err := infrapdf.New(cfg.PDF, zl)
	if err != nil {
		log.Fatal().Err(err).Msg("renderizador PDF")
	}
	defer renderer.Close()

	repos := postgres.NewRepositories(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	brandUC := usecase.NewBrandUseCase(repos.Brands, kv, zl)
	categoryUC := usecase.NewCategoryUseCase(repos.Categories, kv, zl)
	supplierUC := usecase.NewSupplierUseCase(repos.Suppliers, kv, zl)
	modelUC := usecase.NewProductModelUseCase(repos.ProductModels, kv, zl)
	productUC := usecase.NewProductUseCase(repos.Products, kv, zl)
	movements := inventory.NewMovementUseCase(txRunner, repos.Inflows, repos.Outflows, zl)

	metricsSvc := metrics.NewService(postgres.NewMetricsRepository(pool), kv, metrics.Config{
		TTL:    cfg.Metrics.TTL,
		Locale: cfg.Metrics.Locale,
	}, zl)
	exporter := dataio.NewExporter(repos.Lookup, renderer)
	importer := dataio.NewImporter(txRunner, repos.Lookup, metricsSvc, zl)

	dispatcher := queue.NewClient(queue.RedisOpt(cfg.Redis), cfg.Worker.Queue)
	defer dispatcher.Close()
	tracker := notification.NewTracker(postgres.NewTaskNotificationRepository(pool), artifacts, dispatcher, zl)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    32 * 1024 * 1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Management API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		BrandUC:        brandUC,
		CategoryUC:     categoryUC,
		SupplierUC:     supplierUC,
		ProductModelUC: modelUC,
		ProductUC:      productUC,
		Movements:      movements,
		Exporter:       exporter,
		Importer:       importer,
		Tracker:        tracker,
		Storage:        artifacts,
		Metrics:        metricsSvc,
		JWTSecret:      cfg.JWT.Secret,
		Logger:         zl,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
