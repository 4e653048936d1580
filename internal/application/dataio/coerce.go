package dataio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// values fila ya convertida: campo de esquema → valor tipado.
type values map[string]any

func (v values) str(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v values) int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

func (v values) dec(name string) decimal.Decimal {
	d, _ := v[name].(decimal.Decimal)
	return d
}

// project aplica el mapeo {columna origen: campo}. Sin mapeo la fila pasa tal cual.
// Columnas no mapeadas se descartan; una columna origen ausente produce un valor vacío.
func project(row Row, mapping map[string]string) Row {
	if len(mapping) == 0 {
		return row
	}
	out := make(Row, len(mapping))
	for src, field := range mapping {
		out[NormalizeColumn(field)] = row[NormalizeColumn(src)]
	}
	return out
}

// coerceRow convierte cada valor según el tipo del campo y resuelve relaciones.
func coerceRow(ctx context.Context, lookup repository.LookupRepository, schema catalog.Schema, columns []string, row Row) (values, error) {
	out := values{}
	var unknown []string
	for _, col := range columns {
		raw, present := row[col]
		if !present {
			continue
		}
		f, ok := schema.Field(col)
		if !ok {
			unknown = append(unknown, col)
			continue
		}
		if f.ReadOnly {
			continue
		}
		v, err := coerceValue(ctx, lookup, f, raw)
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("columna(s) desconocida(s) para %s: %s", schema.Name, strings.Join(unknown, ", "))
	}
	return out, nil
}

func coerceValue(ctx context.Context, lookup repository.LookupRepository, f catalog.Field, raw string) (any, error) {
	s := strings.TrimSpace(raw)
	switch f.Kind {
	case catalog.KindString:
		return s, nil
	case catalog.KindText:
		return raw, nil
	case catalog.KindInteger:
		if s == "" {
			return int64(0), nil
		}
		n, err := parseInteger(s)
		if err != nil {
			return nil, fmt.Errorf("%s: número entero inválido %q", f.Name, raw)
		}
		return n, nil
	case catalog.KindDecimal:
		if s == "" {
			return decimal.Zero, nil
		}
		d, err := parseDecimal(s)
		if err != nil {
			return nil, fmt.Errorf("%s: número decimal inválido %q", f.Name, raw)
		}
		return d, nil
	case catalog.KindRelation:
		if s == "" {
			return int64(0), nil
		}
		return resolveRelation(ctx, lookup, f, s)
	default:
		return nil, nil
	}
}

// parseInteger acepta "12" y también "12.0", como devuelven las planillas.
func parseInteger(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt64 {
		return 0, errors.New("no entero")
	}
	return int64(f), nil
}

// parseDecimal acepta punto o coma decimal ("10.50" y "10,50").
func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// resolveRelation: un entero es clave primaria y debe existir; cualquier otro texto
// se prueba contra cada clave natural del tipo relacionado y gana la primera con
// exactamente una coincidencia.
func resolveRelation(ctx context.Context, lookup repository.LookupRepository, f catalog.Field, s string) (int64, error) {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		ok, err := lookup.ExistsByID(ctx, f.Related, id)
		if err != nil {
			return 0, &lookupError{err}
		}
		if !ok {
			return 0, &RelationNotFoundError{Field: f.Name, Value: s, Related: f.Related}
		}
		return id, nil
	}
	ambiguous := false
	for _, key := range catalog.MustSchema(f.Related).NaturalKeys() {
		ids, err := lookup.FindIDsByField(ctx, f.Related, key, s, 2)
		if err != nil {
			return 0, &lookupError{err}
		}
		switch len(ids) {
		case 1:
			return ids[0], nil
		case 0:
		default:
			ambiguous = true
		}
	}
	return 0, &RelationNotFoundError{Field: f.Name, Value: s, Related: f.Related, Ambiguous: ambiguous}
}

// lookupError falla de infraestructura al resolver; aborta la importación en vez de marcar la fila.
type lookupError struct{ err error }

func (e *lookupError) Error() string { return e.err.Error() }

func (e *lookupError) Unwrap() error { return e.err }
