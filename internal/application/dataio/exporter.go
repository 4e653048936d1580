package dataio

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// Result archivo generado por una exportación.
type Result struct {
	Content     []byte
	ContentType string
	Filename    string
	Count       int // filas exportadas
}

// Document tabla lista para renderizar como PDF.
type Document struct {
	Title       string
	Columns     []string
	Rows        [][]string
	GeneratedAt time.Time
}

// PDFRenderer convierte un Document en un PDF.
type PDFRenderer interface {
	Render(ctx context.Context, doc Document) ([]byte, error)
}

// Exporter serializa todas las filas de un tipo de entidad en el formato pedido.
type Exporter struct {
	lookup repository.LookupRepository
	pdf    PDFRenderer
	now    func() time.Time
}

// NewExporter construye el exportador. pdf puede ser nil: exportar a PDF devolverá *RenderError.
func NewExporter(lookup repository.LookupRepository, pdf PDFRenderer) *Exporter {
	return &Exporter{lookup: lookup, pdf: pdf, now: time.Now}
}

// ExportAll carga todas las filas del tipo y las exporta.
func (e *Exporter) ExportAll(ctx context.Context, schema catalog.Schema, format Format, stem string) (*Result, error) {
	if _, err := ParseExportFormat(string(format)); err != nil {
		return nil, err
	}
	items, err := e.lookup.ListAll(ctx, schema.Type)
	if err != nil {
		return nil, err
	}
	return e.Export(ctx, schema, items, format, stem)
}

// Export serializa items con las columnas en orden de esquema. El nombre de archivo es stem.ext.
func (e *Exporter) Export(ctx context.Context, schema catalog.Schema, items []catalog.Exportable, format Format, stem string) (*Result, error) {
	records := make([]catalog.Record, len(items))
	for i, it := range items {
		records[i] = it.ToRecord()
	}
	fields := schema.FieldNames()

	var (
		content []byte
		err     error
	)
	switch format {
	case FormatCSV:
		content, err = writeCSV(fields, records)
	case FormatJSON:
		content, err = writeJSON(fields, records)
	case FormatXML:
		content, err = writeXML(fields, records)
	case FormatPDF:
		content, err = e.renderPDF(ctx, schema, fields, records)
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
	if err != nil {
		return nil, err
	}
	return &Result{
		Content:     content,
		ContentType: format.ContentType(),
		Filename:    stem + "." + string(format),
		Count:       len(records),
	}, nil
}

// AsyncStem nombre base de los archivos de exportación asíncrona: product_20240115_143000.
func AsyncStem(schema catalog.Schema, at time.Time) string {
	return strings.ToLower(schema.Name) + "_" + at.Format("20060102_150405")
}

// ArtifactKey ruta de almacenamiento del artefacto: exports/YYYY/MM/DD/<archivo>.
func ArtifactKey(filename string, at time.Time) string {
	return "exports/" + at.Format("2006/01/02") + "/" + filename
}

// cellString representación textual de un valor; las relaciones usan su etiqueta.
func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case decimal.Decimal:
		return x.StringFixed(2)
	case catalog.Ref:
		if x.ID == 0 {
			return ""
		}
		return x.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func writeCSV(fields []string, records []catalog.Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	row := make([]string, len(fields))
	for _, rec := range records {
		for i, f := range fields {
			row[i] = cellString(rec[f])
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// writeJSON escribe un arreglo de objetos con las claves en orden de esquema, indentado a 4 espacios.
func writeJSON(fields []string, records []catalog.Record) ([]byte, error) {
	var compact bytes.Buffer
	compact.WriteByte('[')
	for i, rec := range records {
		if i > 0 {
			compact.WriteByte(',')
		}
		compact.WriteByte('{')
		for j, f := range fields {
			if j > 0 {
				compact.WriteByte(',')
			}
			key, _ := json.Marshal(f)
			compact.Write(key)
			compact.WriteByte(':')
			val, err := json.Marshal(jsonValue(rec[f]))
			if err != nil {
				return nil, fmt.Errorf("campo %s: %w", f, err)
			}
			compact.Write(val)
		}
		compact.WriteByte('}')
	}
	compact.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case decimal.Decimal:
		return json.Number(x.StringFixed(2))
	case catalog.Ref:
		if x.ID == 0 {
			return nil
		}
		return x.String()
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(time.RFC3339)
	default:
		return v
	}
}

// writeXML genera <data><item><campo>valor</campo>...</item></data>.
func writeXML(fields []string, records []catalog.Record) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("data")
	for _, rec := range records {
		item := root.CreateElement("item")
		for _, f := range fields {
			item.CreateElement(f).SetText(cellString(rec[f]))
		}
	}
	doc.Indent(4)
	return doc.WriteToBytes()
}

func (e *Exporter) renderPDF(ctx context.Context, schema catalog.Schema, fields []string, records []catalog.Record) ([]byte, error) {
	if e.pdf == nil {
		return nil, &RenderError{Err: fmt.Errorf("no hay renderizador PDF configurado")}
	}
	doc := Document{
		Title:       schema.VerboseNamePlural,
		Columns:     fields,
		Rows:        make([][]string, len(records)),
		GeneratedAt: e.now(),
	}
	for i, rec := range records {
		row := make([]string, len(fields))
		for j, f := range fields {
			row[j] = cellString(rec[f])
		}
		doc.Rows[i] = row
	}
	out, err := e.pdf.Render(ctx, doc)
	if err != nil {
		return nil, &RenderError{Err: err}
	}
	return out, nil
}
