package notification_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/infrastructure/memory"
	"github.com/cllmenate/inventory-management/internal/infrastructure/storage"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []notification.Job
	err  error
}

func (d *fakeDispatcher) Dispatch(_ context.Context, job notification.Job) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

func (d *fakeDispatcher) last(t *testing.T) notification.Job {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	require.NotEmpty(t, d.jobs)
	return d.jobs[len(d.jobs)-1]
}

type env struct {
	store      *memory.Store
	files      *storage.LocalStore
	dispatcher *fakeDispatcher
	tracker    *notification.Tracker
	runner     *notification.Runner
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repositories()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	dispatcher := &fakeDispatcher{}
	tracker := notification.NewTracker(store.Tasks(), files, dispatcher, zerolog.Nop())
	runner := notification.NewRunner(
		tracker,
		dataio.NewExporter(repos.Lookup, nil),
		dataio.NewImporter(store, repos.Lookup, nil, zerolog.Nop()),
		files,
		zerolog.Nop(),
	)
	return &env{store: store, files: files, dispatcher: dispatcher, tracker: tracker, runner: runner}
}

func (e *env) task(t *testing.T, taskID string) *entity.TaskNotification {
	t.Helper()
	n, err := e.store.Tasks().GetByTaskID(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

const userID int64 = 7

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CreaPendienteYEncolaConElMismoTaskID(t *testing.T) {
	e := newEnv(t)

	n, err := e.tracker.Submit(context.Background(), notification.SubmitRequest{
		UserID: userID,
		Kind:   entity.TaskTypeExport,
		Schema: catalog.MustSchema(catalog.TypeProduct),
		Format: "csv",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, n.TaskID)
	job := e.dispatcher.last(t)
	assert.Equal(t, n.TaskID, job.TaskID)
	assert.Equal(t, "products.Product", job.Model)

	stored := e.task(t, n.TaskID)
	assert.Equal(t, entity.TaskPending, stored.Status)
	assert.False(t, stored.IsRead)
}

func TestSubmit_FalloAlEncolarMarcaFallida(t *testing.T) {
	e := newEnv(t)
	e.dispatcher.err = errors.New("redis caído")

	_, err := e.tracker.Submit(context.Background(), notification.SubmitRequest{
		UserID: userID,
		Kind:   entity.TaskTypeExport,
		Schema: catalog.MustSchema(catalog.TypeBrand),
		Format: "json",
	})
	require.Error(t, err)

	list, err := e.tracker.List(context.Background(), userID, 10, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, string(entity.TaskFailed), list.Items[0].Status)
	assert.Contains(t, list.Items[0].ErrorMessage, "redis caído")
	assert.NotNil(t, list.Items[0].CompletedAt)
}

func TestSubmit_TipoInvalido(t *testing.T) {
	e := newEnv(t)
	_, err := e.tracker.Submit(context.Background(), notification.SubmitRequest{Kind: "sync"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStart_ToleraRegistroQueApareceTarde(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	taskID := "corr-123"

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = e.store.Tasks().Create(ctx, &entity.TaskNotification{
			UserID: userID, TaskType: entity.TaskTypeExport, TaskID: taskID, Status: entity.TaskPending,
		})
	}()

	n, err := e.tracker.Start(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, entity.TaskProcessing, n.Status)
	assert.Equal(t, entity.TaskProcessing, e.task(t, taskID).Status)
}

func TestStart_SinRegistroDevuelveNotFound(t *testing.T) {
	e := newEnv(t)
	_, err := e.tracker.Start(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFinalizar_SoloUnaVez(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	n, err := e.tracker.Submit(ctx, notification.SubmitRequest{
		UserID: userID, Kind: entity.TaskTypeExport, Schema: catalog.MustSchema(catalog.TypeBrand), Format: "csv",
	})
	require.NoError(t, err)
	_, err = e.tracker.Start(ctx, n.TaskID)
	require.NoError(t, err)

	require.NoError(t, e.tracker.Complete(ctx, n.TaskID, 3, "exports/x.csv"))
	assert.ErrorIs(t, e.tracker.Fail(ctx, n.TaskID, "tarde"), domain.ErrJobFinalized)
	assert.ErrorIs(t, e.tracker.Complete(ctx, n.TaskID, 9, ""), domain.ErrJobFinalized)
	_, err = e.tracker.Start(ctx, n.TaskID)
	assert.ErrorIs(t, err, domain.ErrJobFinalized)

	stored := e.task(t, n.TaskID)
	assert.Equal(t, entity.TaskCompleted, stored.Status)
	require.NotNil(t, stored.RecordCount)
	assert.Equal(t, 3, *stored.RecordCount)
	assert.Empty(t, stored.ErrorMessage)
	assert.NotNil(t, stored.CompletedAt)
}

func TestMarkRead_YContadorDeNoLeidas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := e.tracker.Submit(ctx, notification.SubmitRequest{
			UserID: userID, Kind: entity.TaskTypeExport, Schema: catalog.MustSchema(catalog.TypeBrand), Format: "csv",
		})
		require.NoError(t, err)
	}
	list, err := e.tracker.List(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, list.Unread)
	assert.Equal(t, 3, list.Page.Total)

	require.NoError(t, e.tracker.MarkRead(ctx, userID, list.Items[0].ID))
	assert.ErrorIs(t, e.tracker.MarkRead(ctx, userID+1, list.Items[1].ID), domain.ErrNotFound, "otro usuario")

	list, err = e.tracker.List(ctx, userID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Unread)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ejecución en el worker
// ──────────────────────────────────────────────────────────────────────────────

func TestRunExport_GuardaArchivoYPermiteDescarga(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	repos := e.store.Repositories()
	require.NoError(t, repos.Brands.Create(ctx, &entity.Brand{Name: "Nike"}))
	require.NoError(t, repos.Brands.Create(ctx, &entity.Brand{Name: "Puma"}))

	n, err := e.tracker.Submit(ctx, notification.SubmitRequest{
		UserID: userID, Kind: entity.TaskTypeExport, Schema: catalog.MustSchema(catalog.TypeBrand), Format: "csv",
	})
	require.NoError(t, err)

	require.NoError(t, e.runner.RunExport(ctx, e.dispatcher.last(t)))

	stored := e.task(t, n.TaskID)
	assert.Equal(t, entity.TaskCompleted, stored.Status)
	assert.Equal(t, 2, *stored.RecordCount)
	assert.True(t, strings.HasPrefix(stored.FilePath, "exports/"))
	assert.True(t, strings.HasSuffix(stored.FilePath, ".csv"))
	assert.Contains(t, stored.FilePath, "/brand_")

	art, err := e.tracker.Download(ctx, userID, stored.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(art.Body)
	require.NoError(t, art.Body.Close())
	require.NoError(t, err)
	assert.Contains(t, string(body), "Nike")
	assert.Equal(t, "text/csv", art.ContentType)
	assert.True(t, e.task(t, n.TaskID).IsRead, "la descarga marca como leída")
}

func TestRunExport_FormatoInvalidoFallaYPropagaError(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	n, err := e.tracker.Submit(ctx, notification.SubmitRequest{
		UserID: userID, Kind: entity.TaskTypeExport, Schema: catalog.MustSchema(catalog.TypeBrand), Format: "pdf",
	})
	require.NoError(t, err)

	err = e.runner.RunExport(ctx, e.dispatcher.last(t))

	var renderErr *dataio.RenderError
	require.ErrorAs(t, err, &renderErr, "sin renderizador PDF configurado")
	stored := e.task(t, n.TaskID)
	assert.Equal(t, entity.TaskFailed, stored.Status)
	assert.NotEmpty(t, stored.ErrorMessage)
}

func TestDownload_SinArchivo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	n, err := e.tracker.Submit(ctx, notification.SubmitRequest{
		UserID: userID, Kind: entity.TaskTypeImport, Schema: catalog.MustSchema(catalog.TypeBrand), Format: "csv",
	})
	require.NoError(t, err)

	_, err = e.tracker.Download(ctx, userID, n.ID)
	assert.ErrorIs(t, err, domain.ErrNoArtifact)
	_, err = e.tracker.Download(ctx, userID, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunImport_CompletaYBorraArchivoTemporal(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	key := "imports/abc.csv"
	require.NoError(t, e.files.Save(ctx, key, strings.NewReader("name\nNike\nPuma\n"), -1))

	n, err := e.tracker.Submit(ctx, notification.SubmitRequest{
		UserID: userID, Kind: entity.TaskTypeImport, Schema: catalog.MustSchema(catalog.TypeBrand),
		Format: "csv", StagedKey: key,
	})
	require.NoError(t, err)

	require.NoError(t, e.runner.RunImport(ctx, e.dispatcher.last(t)))

	stored := e.task(t, n.TaskID)
	assert.Equal(t, entity.TaskCompleted, stored.Status)
	assert.Equal(t, 2, *stored.RecordCount)
	_, err = e.files.Open(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunImport_ErroresDeFilaFallanYBorranArchivo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	key := "imports/bad.csv"
	require.NoError(t, e.files.Save(ctx, key, strings.NewReader("name,description\nNike,a\n,b\nPuma,c\n"), -1))

	n, err := e.tracker.Submit(ctx, notification.SubmitRequest{
		UserID: userID, Kind: entity.TaskTypeImport, Schema: catalog.MustSchema(catalog.TypeBrand),
		Format: "csv", StagedKey: key,
	})
	require.NoError(t, err)

	err = e.runner.RunImport(ctx, e.dispatcher.last(t))

	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	stored := e.task(t, n.TaskID)
	assert.Equal(t, entity.TaskFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "Row 2")
	_, err = e.files.Open(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	brands, _ := e.store.Repositories().Brands.ListAll(ctx)
	assert.Empty(t, brands)
}
