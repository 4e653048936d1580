package dataio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/pkg/validate"
)

// ImportRequest parámetros de una importación.
type ImportRequest struct {
	Schema  catalog.Schema
	Format  Format
	Mapping map[string]string // columna origen → campo; vacío = columnas con nombre de campo
}

// Invalidator descarta las cachés derivadas de los datos (métricas y listados).
type Invalidator interface {
	InvalidateAll(ctx context.Context) error
}

// Importer lee un archivo, valida todas las filas y persiste el lote completo
// en una sola transacción. Si alguna fila falla no se guarda ninguna.
type Importer struct {
	tx     inventory.TxRunner
	lookup repository.LookupRepository
	inv    Invalidator
	log    zerolog.Logger
	now    func() time.Time
}

// NewImporter construye el importador. inv puede ser nil.
func NewImporter(tx inventory.TxRunner, lookup repository.LookupRepository, inv Invalidator, log zerolog.Logger) *Importer {
	return &Importer{tx: tx, lookup: lookup, inv: inv, log: log, now: time.Now}
}

type pendingRow struct {
	n    int
	save saver
}

// Import devuelve la cantidad de registros creados.
// Errores: *UnsupportedFormatError, *ExtractionError, *RowValidationError o el error de persistencia.
func (im *Importer) Import(ctx context.Context, r io.Reader, req ImportRequest) (int, error) {
	build, ok := builders[req.Schema.Type]
	if !ok {
		return 0, fmt.Errorf("%w: %q", catalog.ErrUnknownEntity, req.Schema.Type)
	}
	table, err := Extract(req.Format, r)
	if err != nil {
		return 0, err
	}

	columns := table.Columns
	if len(req.Mapping) > 0 {
		columns = mappedColumns(req.Mapping)
	}

	now := im.now()
	var (
		rowErrs []string
		pending = make([]pendingRow, 0, len(table.Rows))
	)
	for i, raw := range table.Rows {
		n := i + 1
		vals, err := coerceRow(ctx, im.lookup, req.Schema, columns, project(raw, req.Mapping))
		if err != nil {
			var le *lookupError
			if errors.As(err, &le) {
				return 0, le.err
			}
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: %v", n, err))
			continue
		}
		obj, save := build(vals, now)
		if err := validate.Struct(obj); err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("Row %d: %v", n, err))
			continue
		}
		pending = append(pending, pendingRow{n: n, save: save})
	}
	if len(rowErrs) > 0 {
		im.log.Warn().
			Str("model", req.Schema.Name).
			Int("rows", len(table.Rows)).
			Int("errors", len(rowErrs)).
			Msg("importación rechazada por errores de validación")
		return 0, &RowValidationError{Errors: rowErrs}
	}

	err = im.tx.Run(ctx, func(repos repository.Repositories) error {
		for _, p := range pending {
			if err := p.save(ctx, repos); err != nil {
				return fmt.Errorf("Row %d: %w", p.n, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if im.inv != nil {
		if err := im.inv.InvalidateAll(ctx); err != nil {
			im.log.Warn().Err(err).Msg("no se pudo invalidar caché tras importar")
		}
	}
	im.log.Info().
		Str("model", req.Schema.Name).
		Str("format", string(req.Format)).
		Int("count", len(pending)).
		Msg("importación completada")
	return len(pending), nil
}

func mappedColumns(mapping map[string]string) []string {
	cols := make([]string, 0, len(mapping))
	seen := map[string]bool{}
	for _, field := range mapping {
		f := NormalizeColumn(field)
		if !seen[f] {
			seen[f] = true
			cols = append(cols, f)
		}
	}
	sort.Strings(cols)
	return cols
}
