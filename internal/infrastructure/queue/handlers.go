package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/notification"
)

// JobRunner ejecuta los jobs de exportación e importación.
type JobRunner interface {
	RunExport(ctx context.Context, job notification.Job) error
	RunImport(ctx context.Context, job notification.Job) error
}

// Refresher recalcula la caché de métricas.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Handlers adapta los casos de uso a asynq.HandlerFunc.
// Los errores se devuelven tal cual para que asynq los registre; con MaxRetry(0) no se reintenta.
type Handlers struct {
	runner    JobRunner
	refresher Refresher
	log       zerolog.Logger
}

// NewHandlers construye los handlers del worker.
func NewHandlers(runner JobRunner, refresher Refresher, log zerolog.Logger) *Handlers {
	return &Handlers{runner: runner, refresher: refresher, log: log}
}

// Register devuelve los handlers por tipo de tarea.
func (h *Handlers) Register() []TaskHandler {
	return []TaskHandler{
		{Type: TypeExportData, Handler: h.HandleExport},
		{Type: TypeImportData, Handler: h.HandleImport},
		{Type: TypeMetricsRefresh, Handler: h.HandleMetricsRefresh},
	}
}

func decodeJob(t *asynq.Task) (notification.Job, error) {
	var job notification.Job
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		return job, fmt.Errorf("payload inválido para %s: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	if job.TaskID == "" {
		return job, fmt.Errorf("payload sin task_id para %s: %w", t.Type(), asynq.SkipRetry)
	}
	return job, nil
}

func (h *Handlers) HandleExport(ctx context.Context, t *asynq.Task) error {
	job, err := decodeJob(t)
	if err != nil {
		h.log.Error().Err(err).Msg("tarea descartada")
		return err
	}
	return h.runner.RunExport(ctx, job)
}

func (h *Handlers) HandleImport(ctx context.Context, t *asynq.Task) error {
	job, err := decodeJob(t)
	if err != nil {
		h.log.Error().Err(err).Msg("tarea descartada")
		return err
	}
	return h.runner.RunImport(ctx, job)
}

func (h *Handlers) HandleMetricsRefresh(ctx context.Context, _ *asynq.Task) error {
	return h.refresher.Refresh(ctx)
}
