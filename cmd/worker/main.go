// worker procesa en segundo plano las exportaciones e importaciones encoladas
// por la API y refresca periódicamente la caché de métricas del dashboard.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/metrics"
	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/infrastructure/cache"
	infrapdf "github.com/cllmenate/inventory-management/internal/infrastructure/pdf"
	"github.com/cllmenate/inventory-management/internal/infrastructure/postgres"
	"github.com/cllmenate/inventory-management/internal/infrastructure/queue"
	"github.com/cllmenate/inventory-management/internal/infrastructure/storage"
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
		Component: "worker",
	})
	zl := log.Zerolog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.Worker.Concurrency+2)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	rdb, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer rdb.Close()

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
	metricsSvc := metrics.NewService(postgres.NewMetricsRepository(pool), cache.NewRedisStore(rdb), metrics.Config{
		TTL:    cfg.Metrics.TTL,
		Locale: cfg.Metrics.Locale,
	}, zl)
	exporter := dataio.NewExporter(repos.Lookup, renderer)
	importer := dataio.NewImporter(postgres.NewTxRunner(pool), repos.Lookup, metricsSvc, zl)

	// el worker no encola: Dispatcher nil
	tracker := notification.NewTracker(postgres.NewTaskNotificationRepository(pool), artifacts, nil, zl)
	runner := notification.NewRunner(tracker, exporter, importer, artifacts, zl)

	var cron []queue.CronRegistration
	if cfg.Metrics.RefreshCron != "" {
		cron = append(cron, queue.MetricsRefreshCron(cfg.Metrics.RefreshCron))
	}
	w, err := queue.NewWorker(queue.WorkerConfig{
		RedisOpt:    queue.RedisOpt(cfg.Redis),
		Concurrency: cfg.Worker.Concurrency,
		Queue:       cfg.Worker.Queue,
		Logger:      zl,
		Handlers:    queue.NewHandlers(runner, metricsSvc, zl).Register(),
		Cron:        cron,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}

	log.Info().
		Int("concurrency", cfg.Worker.Concurrency).
		Str("queue", cfg.Worker.Queue).
		Str("cron", cfg.Metrics.RefreshCron).
		Msg("iniciando worker")

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado con error")
		return
	}
	log.Info().Msg("worker detenido")
}
