package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

type fakeRunner struct {
	exports []notification.Job
	imports []notification.Job
	err     error
}

func (f *fakeRunner) RunExport(_ context.Context, job notification.Job) error {
	f.exports = append(f.exports, job)
	return f.err
}

func (f *fakeRunner) RunImport(_ context.Context, job notification.Job) error {
	f.imports = append(f.imports, job)
	return f.err
}

type fakeRefresher struct{ calls int }

func (f *fakeRefresher) Refresh(context.Context) error {
	f.calls++
	return nil
}

func TestNewJobTask_TipoSegunKind(t *testing.T) {
	task, err := NewJobTask(notification.Job{Kind: entity.TaskTypeExport, TaskID: "t1", Model: "brands.Brand", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, TypeExportData, task.Type())

	var job notification.Job
	require.NoError(t, json.Unmarshal(task.Payload(), &job))
	assert.Equal(t, "t1", job.TaskID)

	task, err = NewJobTask(notification.Job{Kind: entity.TaskTypeImport, TaskID: "t2"})
	require.NoError(t, err)
	assert.Equal(t, TypeImportData, task.Type())

	_, err = NewJobTask(notification.Job{Kind: "otro"})
	assert.Error(t, err)
}

func TestJobOptions_TaskIDYSinReintentos(t *testing.T) {
	opts := jobOptions(notification.Job{TaskID: "corr-1"}, "default")

	got := map[asynq.OptionType]any{}
	for _, o := range opts {
		got[o.Type()] = o.Value()
	}
	assert.Equal(t, "corr-1", got[asynq.TaskIDOpt])
	assert.Equal(t, 0, got[asynq.MaxRetryOpt])
	assert.Equal(t, "default", got[asynq.QueueOpt])
}

func TestHandlers_DespachanAlRunnerYPropaganError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("falló")}
	h := NewHandlers(runner, &fakeRefresher{}, zerolog.Nop())

	task, err := NewJobTask(notification.Job{Kind: entity.TaskTypeImport, TaskID: "t9", StagedKey: "imports/t9.csv"})
	require.NoError(t, err)

	err = h.HandleImport(context.Background(), task)
	assert.EqualError(t, err, "falló")
	require.Len(t, runner.imports, 1)
	assert.Equal(t, "imports/t9.csv", runner.imports[0].StagedKey)
}

func TestHandlers_PayloadInvalidoNoSeReintenta(t *testing.T) {
	runner := &fakeRunner{}
	h := NewHandlers(runner, &fakeRefresher{}, zerolog.Nop())

	err := h.HandleExport(context.Background(), asynq.NewTask(TypeExportData, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.HandleExport(context.Background(), asynq.NewTask(TypeExportData, []byte(`{"kind":"export"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, runner.exports)
}

func TestHandlers_RefrescoDeMetricas(t *testing.T) {
	refresher := &fakeRefresher{}
	h := NewHandlers(&fakeRunner{}, refresher, zerolog.Nop())

	require.NoError(t, h.HandleMetricsRefresh(context.Background(), NewMetricsRefreshTask()))
	assert.Equal(t, 1, refresher.calls)

	types := map[string]bool{}
	for _, r := range h.Register() {
		types[r.Type] = true
	}
	assert.True(t, types[TypeExportData] && types[TypeImportData] && types[TypeMetricsRefresh])
}

func TestMetricsRefreshCron(t *testing.T) {
	reg := MetricsRefreshCron("*/5 * * * *")
	assert.Equal(t, "*/5 * * * *", reg.Spec)
	assert.Equal(t, TypeMetricsRefresh, reg.Task.Type())
}
