package dataio

import (
	"fmt"
	"strings"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// UnsupportedFormatError formato de archivo o de exportación desconocido.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("formato de archivo %q no soportado", e.Format)
}

// ExtractionError el archivo no pudo leerse; aborta antes de procesar filas.
type ExtractionError struct {
	Format Format
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("error al leer archivo %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RowValidationError agrega los errores por fila. Si existe, no se persistió nada.
type RowValidationError struct {
	Errors []string
}

func (e *RowValidationError) Error() string {
	return fmt.Sprintf("%d fila(s) con errores: %s", len(e.Errors), strings.Join(e.Errors, "; "))
}

// RelationNotFoundError un valor de relación no resolvió a exactamente una entidad.
type RelationNotFoundError struct {
	Field     string
	Value     string
	Related   catalog.EntityType
	Ambiguous bool
}

func (e *RelationNotFoundError) Error() string {
	related := e.Related
	if s, err := catalog.Lookup(string(e.Related)); err == nil {
		related = catalog.EntityType(s.Name)
	}
	if e.Ambiguous {
		return fmt.Sprintf("%s: %q coincide con más de un %s", e.Field, e.Value, related)
	}
	return fmt.Sprintf("%s: no se encontró %s %q", e.Field, related, e.Value)
}

// RenderError falla al generar un documento (PDF). Nunca tumba el proceso.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("error al generar PDF: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
