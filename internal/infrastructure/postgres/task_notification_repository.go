package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ repository.TaskNotificationRepository = (*TaskNotificationRepo)(nil)

const taskColumns = `id, user_id, task_type, task_id, status, model_name, file_format, file_path,
	record_count, error_message, created_at, updated_at, completed_at, is_read`

// TaskNotificationRepo seguimiento de tareas asíncronas.
type TaskNotificationRepo struct {
	q Querier
}

// NewTaskNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaskNotificationRepository(q Querier) *TaskNotificationRepo {
	return &TaskNotificationRepo{q: q}
}

func (r *TaskNotificationRepo) Create(ctx context.Context, n *entity.TaskNotification) error {
	query := `
		INSERT INTO task_notifications (user_id, task_type, task_id, status, model_name, file_format,
		                                file_path, error_message, created_at, updated_at, is_read)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now(), false)
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		n.UserID, n.TaskType, n.TaskID, string(n.Status), n.ModelName, n.FileFormat, n.FilePath, n.ErrorMessage,
	).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return writeErr("insert task notification", err)
	}
	return nil
}

func (r *TaskNotificationRepo) GetByTaskID(ctx context.Context, taskID string) (*entity.TaskNotification, error) {
	return r.getOne(ctx, `SELECT `+taskColumns+` FROM task_notifications WHERE task_id = $1`, taskID)
}

func (r *TaskNotificationRepo) GetForUser(ctx context.Context, id, userID int64) (*entity.TaskNotification, error) {
	return r.getOne(ctx, `SELECT `+taskColumns+` FROM task_notifications WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *TaskNotificationRepo) getOne(ctx context.Context, query string, args ...any) (*entity.TaskNotification, error) {
	n, err := scanTask(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task notification: %w", err)
	}
	return n, nil
}

// UpdateStatus aplica la transición solo si el estado actual está en upd.From.
// La condición va en el WHERE: dos workers compitiendo no pueden pisar un estado final.
func (r *TaskNotificationRepo) UpdateStatus(ctx context.Context, upd repository.TaskStatusUpdate) (bool, error) {
	from := make([]string, len(upd.From))
	for i, s := range upd.From {
		from[i] = string(s)
	}
	query := `
		UPDATE task_notifications SET
		    status        = $2,
		    record_count  = COALESCE($3, record_count),
		    file_path     = COALESCE(NULLIF($4, ''), file_path),
		    error_message = COALESCE(NULLIF($5, ''), error_message),
		    completed_at  = COALESCE($6, completed_at),
		    updated_at    = now()
		WHERE task_id = $1 AND status = ANY($7)`
	cmd, err := r.q.Exec(ctx, query,
		upd.TaskID, string(upd.To), upd.RecordCount, upd.FilePath, upd.ErrorMessage, upd.CompletedAt, from,
	)
	if err != nil {
		return false, fmt.Errorf("update task status: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (r *TaskNotificationRepo) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE task_notifications SET is_read = true, updated_at = now() WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("mark task notification read: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListByUser devuelve las notificaciones del usuario, más recientes primero.
func (r *TaskNotificationRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.TaskNotification, error) {
	query := `SELECT ` + taskColumns + ` FROM task_notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT NULLIF($2, 0) OFFSET $3`
	rows, err := r.q.Query(ctx, query, userID, max(limit, 0), offset)
	if err != nil {
		return nil, fmt.Errorf("list task notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.TaskNotification
	for rows.Next() {
		n, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (r *TaskNotificationRepo) CountByUser(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM task_notifications WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count task notifications: %w", err)
	}
	return n, nil
}

func (r *TaskNotificationRepo) CountUnread(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM task_notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread task notifications: %w", err)
	}
	return n, nil
}

func scanTask(row pgx.Row) (*entity.TaskNotification, error) {
	var n entity.TaskNotification
	var status string
	err := row.Scan(
		&n.ID, &n.UserID, &n.TaskType, &n.TaskID, &status, &n.ModelName, &n.FileFormat, &n.FilePath,
		&n.RecordCount, &n.ErrorMessage, &n.CreatedAt, &n.UpdatedAt, &n.CompletedAt, &n.IsRead,
	)
	if err != nil {
		return nil, err
	}
	n.Status = entity.TaskStatus(status)
	return &n, nil
}
