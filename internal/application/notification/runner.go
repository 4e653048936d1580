package notification

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// Runner ejecuta en el worker las tareas encoladas y refleja el resultado en el tracker.
// Los errores se guardan en el registro y se devuelven para que la cola los observe.
type Runner struct {
	tracker  *Tracker
	exporter *dataio.Exporter
	importer *dataio.Importer
	storage  ports.ArtifactStorage
	log      zerolog.Logger
	now      func() time.Time
}

// NewRunner construye el ejecutor de tareas.
func NewRunner(tracker *Tracker, exporter *dataio.Exporter, importer *dataio.Importer, storage ports.ArtifactStorage, log zerolog.Logger) *Runner {
	return &Runner{tracker: tracker, exporter: exporter, importer: importer, storage: storage, log: log, now: time.Now}
}

// RunExport genera el archivo, lo guarda en exports/YYYY/MM/DD/ y completa la tarea.
func (r *Runner) RunExport(ctx context.Context, job Job) error {
	log := r.log.With().Str("task_id", job.TaskID).Str("model", job.Model).Logger()
	if _, err := r.tracker.Start(ctx, job.TaskID); err != nil {
		return r.startErr(log, err)
	}

	count, key, err := r.export(ctx, job)
	if err != nil {
		return r.fail(ctx, log, job.TaskID, err)
	}
	if err := r.tracker.Complete(ctx, job.TaskID, count, key); err != nil {
		return err
	}
	log.Info().Int("count", count).Str("file", key).Msg("exportación completada")
	return nil
}

func (r *Runner) export(ctx context.Context, job Job) (int, string, error) {
	schema, err := catalog.Lookup(job.Model)
	if err != nil {
		return 0, "", err
	}
	format, err := dataio.ParseExportFormat(job.Format)
	if err != nil {
		return 0, "", err
	}
	at := r.now()
	res, err := r.exporter.ExportAll(ctx, schema, format, dataio.AsyncStem(schema, at))
	if err != nil {
		return 0, "", err
	}
	key := dataio.ArtifactKey(res.Filename, at)
	if err := r.storage.Save(ctx, key, bytes.NewReader(res.Content), int64(len(res.Content))); err != nil {
		return 0, "", fmt.Errorf("guardar archivo exportado: %w", err)
	}
	return res.Count, key, nil
}

// RunImport procesa el archivo en espera. El archivo se borra siempre, con o sin éxito.
func (r *Runner) RunImport(ctx context.Context, job Job) error {
	log := r.log.With().Str("task_id", job.TaskID).Str("model", job.Model).Logger()
	defer r.cleanup(ctx, log, job.StagedKey)

	if _, err := r.tracker.Start(ctx, job.TaskID); err != nil {
		return r.startErr(log, err)
	}

	count, err := r.importFile(ctx, job)
	if err != nil {
		return r.fail(ctx, log, job.TaskID, err)
	}
	if err := r.tracker.Complete(ctx, job.TaskID, count, ""); err != nil {
		return err
	}
	log.Info().Int("count", count).Msg("importación completada")
	return nil
}

func (r *Runner) importFile(ctx context.Context, job Job) (int, error) {
	schema, err := catalog.Lookup(job.Model)
	if err != nil {
		return 0, err
	}
	format, err := dataio.FormatFromFilename(job.StagedKey)
	if err != nil {
		return 0, err
	}
	body, err := r.storage.Open(ctx, job.StagedKey)
	if err != nil {
		return 0, fmt.Errorf("abrir archivo a importar: %w", err)
	}
	defer body.Close()
	return r.importer.Import(ctx, body, dataio.ImportRequest{Schema: schema, Format: format, Mapping: job.Mapping})
}

func (r *Runner) cleanup(ctx context.Context, log zerolog.Logger, key string) {
	if key == "" {
		return
	}
	if err := r.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Warn().Err(err).Str("file", key).Msg("no se pudo borrar el archivo temporal")
	}
}

func (r *Runner) fail(ctx context.Context, log zerolog.Logger, taskID string, cause error) error {
	log.Error().Err(cause).Msg("tarea fallida")
	if err := r.tracker.Fail(context.WithoutCancel(ctx), taskID, cause.Error()); err != nil {
		log.Error().Err(err).Msg("no se pudo registrar el fallo")
	}
	return cause
}

func (r *Runner) startErr(log zerolog.Logger, err error) error {
	if errors.Is(err, domain.ErrJobFinalized) {
		log.Warn().Msg("tarea ya finalizada; se ignora la reentrega")
		return nil
	}
	log.Error().Err(err).Msg("no se pudo iniciar la tarea")
	return err
}
