package repository

import (
	"context"
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// TaskStatusUpdate transición condicional de una tarea.
// Solo se aplica si el estado actual está en From.
type TaskStatusUpdate struct {
	TaskID       string
	From         []entity.TaskStatus
	To           entity.TaskStatus
	RecordCount  *int
	FilePath     string
	ErrorMessage string
	CompletedAt  *time.Time
}

// TaskNotificationRepository define el puerto de persistencia del seguimiento de tareas.
type TaskNotificationRepository interface {
	Create(ctx context.Context, n *entity.TaskNotification) error
	GetByTaskID(ctx context.Context, taskID string) (*entity.TaskNotification, error)
	GetForUser(ctx context.Context, id, userID int64) (*entity.TaskNotification, error)
	// UpdateStatus devuelve false si la fila no estaba en ninguno de los estados From.
	UpdateStatus(ctx context.Context, upd TaskStatusUpdate) (bool, error)
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.TaskNotification, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
}
