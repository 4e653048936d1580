// Package catalog describe de forma explícita los tipos de entidad que pueden
// importarse y exportarse: campos, relaciones y claves naturales.
//
// Reemplaza la introspección en tiempo de ejecución por un registro estático;
// cada entidad expone su esquema y una representación plana (Record).
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// EntityType identifica un tipo de entidad del inventario.
type EntityType string

const (
	TypeBrand        EntityType = "brand"
	TypeCategory     EntityType = "category"
	TypeSupplier     EntityType = "supplier"
	TypeProductModel EntityType = "product_model"
	TypeProduct      EntityType = "product"
	TypeInflow       EntityType = "inflow"
	TypeOutflow      EntityType = "outflow"
)

// FieldKind tipo lógico de un campo (guía la coerción de valores importados).
type FieldKind int

const (
	KindString FieldKind = iota
	KindText
	KindInteger
	KindDecimal
	KindRelation
	KindDateTime
)

// ErrUnknownEntity se devuelve cuando el nombre no corresponde a ningún tipo registrado.
var ErrUnknownEntity = errors.New("tipo de entidad desconocido")

// NaturalKeyCandidates campos probados, en orden, para resolver una relación por texto.
// Incluye los equivalentes en portugués usados por planillas heredadas.
var NaturalKeyCandidates = []string{"name", "title", "nome", "titulo"}

// Field describe un campo del esquema.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	ReadOnly bool // id y timestamps: aceptados en importación pero ignorados
	Related  EntityType
}


// Schema metadatos de un tipo de entidad.
type Schema struct {
	Type              EntityType
	Name              string // nombre del modelo: "Product"
	App               string // agrupador lógico: "products"
	VerboseName       string
	VerboseNamePlural string
	Table             string
	Fields            []Field
}

// QualifiedName devuelve "app.Modelo", formato guardado en las notificaciones de tareas.
func (s Schema) QualifiedName() string { return s.App + "." + s.Name }

// Field busca un campo por nombre.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames devuelve los nombres de campo en orden de esquema (columnas de exportación).
func (s Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// NaturalKeys devuelve los candidatos de clave natural que el esquema realmente tiene.
func (s Schema) NaturalKeys() []string {
	var keys []string
	for _, c := range NaturalKeyCandidates {
		if f, ok := s.Field(c); ok && (f.Kind == KindString || f.Kind == KindText) {
			keys = append(keys, c)
		}
	}
	return keys
}

// Ref valor de una relación en un Record: clave primaria y etiqueta legible.
type Ref struct {
	ID    int64
	Label string
}

// String devuelve la etiqueta; si no se cargó, el id.
func (r Ref) String() string {
	if r.Label != "" {
		return r.Label
	}
	return fmt.Sprintf("%d", r.ID)
}

// Record representación plana campo → valor de una entidad.
type Record map[string]any

// Exportable capacidad mínima que necesita el pipeline de exportación.
type Exportable interface {
	Schema() Schema
	ToRecord() Record
}

func baseFields(fields ...Field) []Field {
	out := []Field{{Name: "id", Kind: KindInteger, ReadOnly: true}}
	out = append(out, fields...)
	return append(out,
		Field{Name: "created_at", Kind: KindDateTime, ReadOnly: true},
		Field{Name: "updated_at", Kind: KindDateTime, ReadOnly: true},
	)
}

var schemas = []Schema{
	{
		Type: TypeBrand, Name: "Brand", App: "brands", Table: "brands",
		VerboseName: "Marca", VerboseNamePlural: "Marcas",
		Fields: baseFields(
			Field{Name: "name", Kind: KindString, Required: true},
			Field{Name: "description", Kind: KindText},
		),
	},
	{
		Type: TypeCategory, Name: "Category", App: "categories", Table: "categories",
		VerboseName: "Categoria", VerboseNamePlural: "Categorias",
		Fields: baseFields(
			Field{Name: "name", Kind: KindString, Required: true},
			Field{Name: "description", Kind: KindText},
		),
	},
	{
		Type: TypeSupplier, Name: "Supplier", App: "suppliers", Table: "suppliers",
		VerboseName: "Fornecedor", VerboseNamePlural: "Fornecedores",
		Fields: baseFields(
			Field{Name: "name", Kind: KindString, Required: true},
			Field{Name: "description", Kind: KindText},
		),
	},
	{
		Type: TypeProductModel, Name: "ProductModel", App: "product_models", Table: "product_models",
		VerboseName: "Modelo de Produto", VerboseNamePlural: "Modelos de Produto",
		Fields: baseFields(
			Field{Name: "name", Kind: KindString, Required: true},
			Field{Name: "brand", Kind: KindRelation, Required: true, Related: TypeBrand},
			Field{Name: "description", Kind: KindText},
		),
	},
	{
		Type: TypeProduct, Name: "Product", App: "products", Table: "products",
		VerboseName: "Produto", VerboseNamePlural: "Produtos",
		Fields: baseFields(
			Field{Name: "title", Kind: KindString, Required: true},
			Field{Name: "product_model", Kind: KindRelation, Required: true, Related: TypeProductModel},
			Field{Name: "category", Kind: KindRelation, Required: true, Related: TypeCategory},
			Field{Name: "description", Kind: KindText},
			Field{Name: "serial_number", Kind: KindString},
			Field{Name: "cost_price", Kind: KindDecimal, Required: true},
			Field{Name: "sell_price", Kind: KindDecimal, Required: true},
			Field{Name: "quantity", Kind: KindInteger},
		),
	},
	{
		Type: TypeInflow, Name: "Inflows", App: "inflows", Table: "inflows",
		VerboseName: "Entrada", VerboseNamePlural: "Entradas",
		Fields: baseFields(
			Field{Name: "supplier", Kind: KindRelation, Required: true, Related: TypeSupplier},
			Field{Name: "product", Kind: KindRelation, Required: true, Related: TypeProduct},
			Field{Name: "quantity", Kind: KindInteger, Required: true},
			Field{Name: "description", Kind: KindText},
		),
	},
	{
		Type: TypeOutflow, Name: "Outflows", App: "outflows", Table: "outflows",
		VerboseName: "Saída", VerboseNamePlural: "Saídas",
		Fields: baseFields(
			Field{Name: "product", Kind: KindRelation, Required: true, Related: TypeProduct},
			Field{Name: "quantity", Kind: KindInteger, Required: true},
			Field{Name: "description", Kind: KindText},
		),
	},
}

var (
	byType  = map[EntityType]Schema{}
	aliases = map[string]EntityType{}
)

func init() {
	for _, s := range schemas {
		byType[s.Type] = s
		for _, alias := range []string{string(s.Type), s.Name, s.App, s.Table} {
			aliases[aliasKey(alias)] = s.Type
		}
	}
	// singulares usados por rutas y planillas
	aliases[aliasKey("inflow")] = TypeInflow
	aliases[aliasKey("outflow")] = TypeOutflow
}

// aliasKey normaliza "product-models", "ProductModel" y "product_model" a la misma clave.
func aliasKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// Lookup resuelve un nombre de entidad: "Product", "products.Product", "product" o el slug de ruta.
func Lookup(name string) (Schema, error) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	t, ok := aliases[aliasKey(name)]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownEntity, name)
	}
	return byType[t], nil
}

// MustSchema devuelve el esquema de un tipo registrado; entra en pánico si no existe.
func MustSchema(t EntityType) Schema {
	s, ok := byType[t]
	if !ok {
		panic(fmt.Sprintf("catalog: tipo no registrado %q", t))
	}
	return s
}
