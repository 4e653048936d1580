// Package queue conecta el tracker de tareas con asynq: cliente para encolar,
// servidor con los handlers del worker y el scheduler del refresco de métricas.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// Tipos de tarea.
const (
	TypeExportData     = "export:data"
	TypeImportData     = "import:data"
	TypeMetricsRefresh = "metrics:refresh"
)

// DefaultQueue cola usada si la configuración no define otra.
const DefaultQueue = "default"

// NewJobTask construye la tarea asynq para un Job de exportación o importación.
func NewJobTask(job notification.Job) (*asynq.Task, error) {
	var typ string
	switch job.Kind {
	case entity.TaskTypeExport:
		typ = TypeExportData
	case entity.TaskTypeImport:
		typ = TypeImportData
	default:
		return nil, fmt.Errorf("queue: tipo de tarea desconocido %q", job.Kind)
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(typ, payload), nil
}

// jobOptions: el id de correlación es el TaskID de asynq y no hay reintentos automáticos.
func jobOptions(job notification.Job, queue string) []asynq.Option {
	return []asynq.Option{
		asynq.TaskID(job.TaskID),
		asynq.MaxRetry(0),
		asynq.Queue(queue),
	}
}

// NewMetricsRefreshTask tarea periódica sin payload.
func NewMetricsRefreshTask() *asynq.Task {
	return asynq.NewTask(TypeMetricsRefresh, nil)
}
