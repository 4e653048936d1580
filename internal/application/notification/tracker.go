// Package notification registra el ciclo de vida de las exportaciones e
// importaciones asíncronas: pending → processing → {completed | failed}.
package notification

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// Job unidad de trabajo que viaja por la cola. TaskID es el id de correlación.
type Job struct {
	Kind      string            `json:"kind"`
	TaskID    string            `json:"task_id"`
	UserID    int64             `json:"user_id"`
	Model     string            `json:"model"`
	Format    string            `json:"format"`
	StagedKey string            `json:"staged_key,omitempty"`
	Mapping   map[string]string `json:"mapping,omitempty"`
}

// Dispatcher entrega un Job a la cola usando job.TaskID como identificador de la tarea.
type Dispatcher interface {
	Dispatch(ctx context.Context, job Job) error
}

// SubmitRequest datos para encolar una tarea.
type SubmitRequest struct {
	UserID    int64
	Kind      string
	Schema    catalog.Schema
	Format    string
	StagedKey string // importación: archivo ya guardado en el almacenamiento
	Mapping   map[string]string
}

// Artifact archivo descargable de una exportación terminada.
type Artifact struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

// Tracker persiste y transiciona los registros de tareas.
type Tracker struct {
	repo       repository.TaskNotificationRepository
	storage    ports.ArtifactStorage
	dispatcher Dispatcher
	log        zerolog.Logger

	startAttempts int
	startBackoff  time.Duration
	now           func() time.Time
	newTaskID     func() string
}

// NewTracker construye el tracker.
func NewTracker(repo repository.TaskNotificationRepository, storage ports.ArtifactStorage, dispatcher Dispatcher, log zerolog.Logger) *Tracker {
	return &Tracker{
		repo:          repo,
		storage:       storage,
		dispatcher:    dispatcher,
		log:           log,
		startAttempts: 5,
		startBackoff:  100 * time.Millisecond,
		now:           time.Now,
		newTaskID:     uuid.NewString,
	}
}

// Submit genera el id de correlación, guarda el registro pending y encola la tarea.
// El registro existe antes de encolar; si la cola falla, queda en failed.
func (t *Tracker) Submit(ctx context.Context, req SubmitRequest) (*entity.TaskNotification, error) {
	if req.Kind != entity.TaskTypeExport && req.Kind != entity.TaskTypeImport {
		return nil, fmt.Errorf("%w: tipo de tarea %q", domain.ErrInvalidInput, req.Kind)
	}
	n := &entity.TaskNotification{
		UserID:     req.UserID,
		TaskType:   req.Kind,
		TaskID:     t.newTaskID(),
		Status:     entity.TaskPending,
		ModelName:  req.Schema.QualifiedName(),
		FileFormat: req.Format,
	}
	if err := t.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	job := Job{
		Kind:      req.Kind,
		TaskID:    n.TaskID,
		UserID:    req.UserID,
		Model:     n.ModelName,
		Format:    req.Format,
		StagedKey: req.StagedKey,
		Mapping:   req.Mapping,
	}
	if err := t.dispatcher.Dispatch(ctx, job); err != nil {
		t.log.Error().Err(err).Str("task_id", n.TaskID).Msg("no se pudo encolar la tarea")
		if ferr := t.Fail(ctx, n.TaskID, "no se pudo encolar la tarea: "+err.Error()); ferr != nil {
			t.log.Error().Err(ferr).Str("task_id", n.TaskID).Msg("no se pudo marcar la tarea como fallida")
		}
		return nil, fmt.Errorf("encolar tarea: %w", err)
	}

	t.log.Info().
		Str("task_id", n.TaskID).
		Str("kind", n.TaskType).
		Str("model", n.ModelName).
		Int64("user_id", n.UserID).
		Msg("tarea encolada")
	return n, nil
}

// Start pasa la tarea a processing. Reintenta la búsqueda unas veces porque el
// worker puede tomar la tarea antes de que el registro sea visible.
func (t *Tracker) Start(ctx context.Context, taskID string) (*entity.TaskNotification, error) {
	var n *entity.TaskNotification
	for attempt := 1; attempt <= t.startAttempts; attempt++ {
		var err error
		n, err = t.repo.GetByTaskID(ctx, taskID)
		if err != nil {
			return nil, err
		}
		if n != nil {
			break
		}
		if attempt == t.startAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * t.startBackoff):
		}
	}
	if n == nil {
		return nil, fmt.Errorf("%w: tarea %s", domain.ErrNotFound, taskID)
	}

	applied, err := t.repo.UpdateStatus(ctx, repository.TaskStatusUpdate{
		TaskID: taskID,
		From:   []entity.TaskStatus{entity.TaskPending},
		To:     entity.TaskProcessing,
	})
	if err != nil {
		return nil, err
	}
	if !applied && n.Status.IsTerminal() {
		return nil, domain.ErrJobFinalized
	}
	n.Status = entity.TaskProcessing
	return n, nil
}

// Complete registra el éxito una sola vez.
func (t *Tracker) Complete(ctx context.Context, taskID string, count int, filePath string) error {
	now := t.now()
	return t.finish(ctx, repository.TaskStatusUpdate{
		TaskID:      taskID,
		To:          entity.TaskCompleted,
		RecordCount: &count,
		FilePath:    filePath,
		CompletedAt: &now,
	})
}

// Fail registra el error una sola vez.
func (t *Tracker) Fail(ctx context.Context, taskID, message string) error {
	now := t.now()
	return t.finish(ctx, repository.TaskStatusUpdate{
		TaskID:       taskID,
		To:           entity.TaskFailed,
		ErrorMessage: message,
		CompletedAt:  &now,
	})
}

func (t *Tracker) finish(ctx context.Context, upd repository.TaskStatusUpdate) error {
	upd.From = []entity.TaskStatus{entity.TaskPending, entity.TaskProcessing}
	applied, err := t.repo.UpdateStatus(ctx, upd)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	n, err := t.repo.GetByTaskID(ctx, upd.TaskID)
	if err != nil {
		return err
	}
	if n == nil {
		return fmt.Errorf("%w: tarea %s", domain.ErrNotFound, upd.TaskID)
	}
	return domain.ErrJobFinalized
}

// List devuelve las notificaciones del usuario y cuántas no leyó.
func (t *Tracker) List(ctx context.Context, userID int64, limit, offset int) (*dto.TaskNotificationListResponse, error) {
	list, err := t.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := t.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := t.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TaskNotificationResponse, 0, len(list))
	for _, n := range list {
		items = append(items, ToResponse(n))
	}
	return &dto.TaskNotificationListResponse{
		Items:  items,
		Unread: unread,
		Page:   dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// MarkRead marca la notificación como leída.
func (t *Tracker) MarkRead(ctx context.Context, userID, id int64) error {
	ok, err := t.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Download abre el archivo de una exportación terminada y la marca como leída.
func (t *Tracker) Download(ctx context.Context, userID, id int64) (*Artifact, error) {
	n, err := t.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	if n.TaskType != entity.TaskTypeExport || n.FilePath == "" {
		return nil, domain.ErrNoArtifact
	}
	body, err := t.storage.Open(ctx, n.FilePath)
	if err != nil {
		return nil, fmt.Errorf("abrir archivo exportado: %w", err)
	}
	if _, err := t.repo.MarkRead(ctx, id, userID); err != nil {
		t.log.Warn().Err(err).Int64("notification_id", id).Msg("no se pudo marcar como leída")
	}
	return &Artifact{
		Body:        body,
		Filename:    path.Base(n.FilePath),
		ContentType: dataio.Format(n.FileFormat).ContentType(),
	}, nil
}

// ToResponse convierte el registro al DTO de la API.
func ToResponse(n *entity.TaskNotification) dto.TaskNotificationResponse {
	return dto.TaskNotificationResponse{
		ID:           n.ID,
		TaskType:     n.TaskType,
		TaskID:       n.TaskID,
		Status:       string(n.Status),
		ModelName:    n.ModelName,
		FileFormat:   n.FileFormat,
		HasFile:      n.FilePath != "",
		RecordCount:  n.RecordCount,
		ErrorMessage: n.ErrorMessage,
		IsRead:       n.IsRead,
		Display:      n.String(),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
		CompletedAt:  n.CompletedAt,
	}
}
