// Package validate centraliza go-playground/validator con las reglas propias
// del inventario (decimales no negativos) y mensajes legibles.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// decimal.Decimal es un struct: se valida como float64 para que las reglas se evalúen
		v.RegisterCustomTypeFunc(func(f reflect.Value) any {
			if d, ok := f.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		_ = v.RegisterValidation("decimal_gte0", decimalGTE0)
	})
	return v
}

func decimalGTE0(fl validator.FieldLevel) bool {
	switch d := fl.Field().Interface().(type) {
	case float64:
		return d >= 0
	case decimal.Decimal:
		return !d.IsNegative()
	case *decimal.Decimal:
		return d == nil || !d.IsNegative()
	default:
		return false
	}
}

// FieldError falla de una regla sobre un campo.
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (f FieldError) message() string {
	switch f.Tag {
	case "required":
		return "campo obligatorio"
	case "max":
		return fmt.Sprintf("máximo %s caracteres", f.Param)
	case "min":
		return fmt.Sprintf("mínimo %s", f.Param)
	case "gt":
		return fmt.Sprintf("debe ser mayor que %s", f.Param)
	case "gte", "decimal_gte0":
		return "no puede ser negativo"
	case "oneof":
		return fmt.Sprintf("debe ser uno de [%s]", f.Param)
	default:
		return "valor inválido (" + f.Tag + ")"
	}
}

// Error agrupa todas las fallas de una validación.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.message()
	}
	return strings.Join(parts, "; ")
}

// Struct valida s con sus etiquetas `validate`. Devuelve *Error si alguna regla falla.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fieldName(fe.StructField()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// fieldName convierte ProductModelID en product_model (nombre del campo de esquema).
func fieldName(goName string) string {
	var b strings.Builder
	runes := []rune(goName)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	name := b.String()
	if name != "id" {
		name = strings.TrimSuffix(name, "_id")
	}
	return name
}
