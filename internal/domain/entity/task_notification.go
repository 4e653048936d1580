package entity

import (
	"fmt"
	"time"
)

// Tipos de tarea asíncrona.
const (
	TaskTypeExport = "export"
	TaskTypeImport = "import"
)

// TaskStatus estado del ciclo de vida de una tarea.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// IsTerminal indica si el estado ya no admite transiciones.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// CanTransitionTo valida pending → processing → {completed | failed}.
// Un fallo también puede registrarse desde pending (p.ej. error al encolar).
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskPending:
		return next == TaskProcessing || next == TaskFailed || next == TaskCompleted
	case TaskProcessing:
		return next == TaskCompleted || next == TaskFailed
	default:
		return false
	}
}

// TaskNotification registro de seguimiento de una exportación o importación asíncrona.
// TaskID es el id de correlación de la cola; se conoce antes de encolar.
type TaskNotification struct {
	ID           int64
	UserID       int64
	TaskType     string
	TaskID       string
	Status       TaskStatus
	ModelName    string
	FileFormat   string
	FilePath     string
	RecordCount  *int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	IsRead       bool
}

func (n *TaskNotification) String() string {
	label := "Exportação"
	if n.TaskType == TaskTypeImport {
		label = "Importação"
	}
	return fmt.Sprintf("%s - %s (%s)", label, n.ModelName, n.Status)
}
