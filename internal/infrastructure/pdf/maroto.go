// Package pdf genera el PDF tabular de las exportaciones.
//
// Layout de la página A4 apaisada:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO (nombre plural del modelo)        Generado: fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CABECERA: una columna por campo (fondo azul)               │
//	│  FILAS: una por registro, zebra gris claro                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Total de registros                                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"unicode/utf8"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorZebra   = &props.Color{Red: 240, Green: 243, Blue: 247}
)

// maxCellRunes recorta celdas largas; las filas tienen alto fijo.
const maxCellRunes = 40

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa dataio.PDFRenderer usando Maroto v2.
type MarotoRenderer struct{}

// NewMarotoRenderer construye el renderizador.
func NewMarotoRenderer() *MarotoRenderer { return &MarotoRenderer{} }

// Render genera el PDF y devuelve sus bytes.
func (r *MarotoRenderer) Render(ctx context.Context, doc dataio.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grid := len(doc.Columns)
	if grid == 0 {
		grid = 1
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithMaxGridSize(grid).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(doc.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(doc, grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(doc.Columns))
	m.AddRows(tableRows(doc.Rows, len(doc.Columns))...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(footerRow(len(doc.Rows), grid))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título (izq) y fecha de generación (der). El grid es de una
// columna por campo, así que se reparte en mitades.
func titleRow(doc dataio.Document, grid int) core.Row {
	left := grid - grid/2
	right := grid / 2
	title := col.New(left).Add(text.New(doc.Title, props.Text{
		Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
	}))
	generated := "Generado: " + doc.GeneratedAt.Format("02/01/2006 15:04")
	if right == 0 {
		return row.New(16).Add(title.Add(text.New(generated, props.Text{
			Size: 8, Top: 9, Color: colorGray,
		})))
	}
	return row.New(16).Add(
		title,
		col.New(right).Add(text.New(generated, props.Text{
			Size: 8, Align: align.Right, Top: 3, Color: colorGray,
		})),
	)
}

// tableHeaderRow: nombres de campo sobre fondo azul.
func tableHeaderRow(columns []string) core.Row {
	cols := make([]core.Col, 0, len(columns))
	for _, c := range columns {
		cols = append(cols, col.New(1).Add(text.New(c, props.Text{
			Style: fontstyle.Bold, Size: 7, Color: colorWhite,
			Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRows: una fila por registro; las filas impares con fondo zebra.
func tableRows(rows [][]string, width int) []core.Row {
	out := make([]core.Row, 0, len(rows))
	for i, values := range rows {
		cols := make([]core.Col, 0, width)
		for j := 0; j < width; j++ {
			var v string
			if j < len(values) {
				v = truncate(values[j], maxCellRunes)
			}
			cols = append(cols, col.New(1).Add(text.New(v, props.Text{
				Size: 7, Top: 1, Left: 1, Right: 1,
			})))
		}
		r := row.New(7).Add(cols...)
		if i%2 == 1 {
			r = r.WithStyle(&props.Cell{BackgroundColor: colorZebra})
		}
		out = append(out, r)
	}
	return out
}

func footerRow(count, grid int) core.Row {
	return row.New(8).Add(col.New(grid).Add(
		text.New(fmt.Sprintf("Total de registros: %d", count), props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorGray, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// truncate corta s a n runas agregando "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
