package memory

import (
	"context"
	"slices"
	"time"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ repository.TaskNotificationRepository = (*TaskRepo)(nil)

// TaskRepo notificaciones de tareas en memoria.
type TaskRepo struct{ s *Store }

// Tasks devuelve el repositorio de notificaciones del almacén.
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s} }

func (r *TaskRepo) Create(_ context.Context, n *entity.TaskNotification) error {
	return r.s.write(func(st *state) error {
		for _, t := range st.tasks {
			if t.TaskID == n.TaskID {
				return domain.ErrDuplicate
			}
		}
		n.ID = st.newID()
		st.tasks[n.ID] = *n
		return nil
	})
}

func (r *TaskRepo) GetByTaskID(_ context.Context, taskID string) (*entity.TaskNotification, error) {
	var out *entity.TaskNotification
	r.s.read(func(st *state) {
		for _, t := range st.tasks {
			if t.TaskID == taskID {
				t := t
				out = &t
				return
			}
		}
	})
	return out, nil
}

func (r *TaskRepo) GetForUser(_ context.Context, id, userID int64) (*entity.TaskNotification, error) {
	var out *entity.TaskNotification
	r.s.read(func(st *state) {
		if t, ok := st.tasks[id]; ok && t.UserID == userID {
			out = &t
		}
	})
	return out, nil
}

func (r *TaskRepo) UpdateStatus(_ context.Context, upd repository.TaskStatusUpdate) (bool, error) {
	var applied bool
	err := r.s.write(func(st *state) error {
		for id, t := range st.tasks {
			if t.TaskID != upd.TaskID || !slices.Contains(upd.From, t.Status) {
				continue
			}
			t.Status = upd.To
			if upd.RecordCount != nil {
				t.RecordCount = upd.RecordCount
			}
			if upd.FilePath != "" {
				t.FilePath = upd.FilePath
			}
			if upd.ErrorMessage != "" {
				t.ErrorMessage = upd.ErrorMessage
			}
			if upd.CompletedAt != nil {
				t.CompletedAt = upd.CompletedAt
			}
			t.UpdatedAt = time.Now()
			st.tasks[id] = t
			applied = true
			return nil
		}
		return nil
	})
	return applied, err
}

func (r *TaskRepo) MarkRead(_ context.Context, id, userID int64) (bool, error) {
	var ok bool
	err := r.s.write(func(st *state) error {
		t, found := st.tasks[id]
		if !found || t.UserID != userID {
			return nil
		}
		t.IsRead = true
		st.tasks[id] = t
		ok = true
		return nil
	})
	return ok, err
}

func (r *TaskRepo) ListByUser(_ context.Context, userID int64, limit, offset int) ([]*entity.TaskNotification, error) {
	var out []*entity.TaskNotification
	r.s.read(func(st *state) {
		for _, t := range st.tasks {
			if t.UserID == userID {
				t := t
				out = append(out, &t)
			}
		}
	})
	sortNewestFirst(out, func(t *entity.TaskNotification) int64 { return t.ID })
	return page(out, limit, offset), nil
}

func (r *TaskRepo) CountByUser(_ context.Context, userID int64) (int, error) {
	n := 0
	r.s.read(func(st *state) {
		for _, t := range st.tasks {
			if t.UserID == userID {
				n++
			}
		}
	})
	return n, nil
}

func (r *TaskRepo) CountUnread(_ context.Context, userID int64) (int, error) {
	n := 0
	r.s.read(func(st *state) {
		for _, t := range st.tasks {
			if t.UserID == userID && !t.IsRead {
				n++
			}
		}
	})
	return n, nil
}
