package dataio

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Row fila extraída: columna normalizada → valor textual.
type Row map[string]string

// Table resultado de la extracción. Columns conserva el orden del archivo
// (salvo JSON, donde se ordena alfabéticamente).
type Table struct {
	Columns []string
	Rows    []Row
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrNoRows el archivo no tiene filas de datos (vacío o solo encabezado).
var ErrNoRows = errors.New("el archivo no contiene filas de datos")

// Extract lee un archivo completo en una tabla de filas con columnas normalizadas.
func Extract(format Format, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Format: format, Err: err}
	}
	var t *Table
	switch format {
	case FormatCSV:
		t, err = extractCSV(data)
	case FormatJSON:
		t, err = extractJSON(data)
	case FormatXLSX:
		t, err = extractXLSX(data)
	case FormatXLS:
		t, err = extractXLS(data)
	case FormatXML:
		t, err = extractXML(data)
	default:
		return nil, &UnsupportedFormatError{Format: string(format)}
	}
	if err == nil && len(t.Rows) == 0 {
		err = ErrNoRows
	}
	if err != nil {
		return nil, &ExtractionError{Format: format, Err: err}
	}
	return t, nil
}

// NormalizeColumn recorta, pasa a minúsculas y reemplaza espacios por "_".
func NormalizeColumn(c string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c)), " ", "_")
}

// fromGrid arma la tabla a partir de una matriz con encabezado en la primera fila.
func fromGrid(grid [][]string) *Table {
	t := &Table{}
	if len(grid) == 0 {
		return t
	}
	for _, h := range grid[0] {
		t.Columns = append(t.Columns, NormalizeColumn(h))
	}
	for _, rec := range grid[1:] {
		// filas sin celdas (líneas vacías, filas inexistentes en la hoja) se omiten;
		// una fila con celdas vacías se conserva y falla en la validación
		if len(rec) == 0 {
			continue
		}
		row := make(Row, len(t.Columns))
		for i, col := range t.Columns {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func extractCSV(data []byte) (*Table, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		// planillas exportadas desde Excel en Windows
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("codificación no reconocida: %w", err)
		}
		data = decoded
	}
	cr := csv.NewReader(bytes.NewReader(data))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return fromGrid(grid), nil
}

func extractJSON(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	dec.UseNumber()
	var items []map[string]any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("se esperaba un arreglo de objetos: %w", err)
	}
	seen := map[string]bool{}
	t := &Table{}
	for _, item := range items {
		row := make(Row, len(item))
		for k, v := range item {
			col := NormalizeColumn(k)
			if !seen[col] {
				seen[col] = true
				t.Columns = append(t.Columns, col)
			}
			s, err := jsonScalar(v)
			if err != nil {
				return nil, fmt.Errorf("campo %q: %w", k, err)
			}
			row[col] = s
		}
		t.Rows = append(t.Rows, row)
	}
	sort.Strings(t.Columns)
	return t, nil
}

func jsonScalar(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", errors.New("se esperaba un valor escalar")
	}
}

func extractXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return fromGrid(grid), nil
}

// extractXLS lee la primera hoja de un libro BIFF. extrame/xls entra en pánico
// con archivos dañados y con filas ausentes (Row(i) desreferencia nil), así que
// el pánico se convierte en error de extracción.
func extractXLS(data []byte) (t *Table, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("libro xls inválido: %v", r)
		}
	}()
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return &Table{}, nil
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return &Table{}, nil
	}
	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		grid = append(grid, xlsRow(sheet, i))
	}
	// la primera fila no vacía es el encabezado
	for len(grid) > 0 && isBlank(grid[0]) {
		grid = grid[1:]
	}
	return fromGrid(grid), nil
}

// xlsRow devuelve las celdas de la fila i, o nil si la hoja no la tiene.
func xlsRow(sheet *xls.WorkSheet, i int) (rec []string) {
	defer func() {
		if recover() != nil {
			rec = nil
		}
	}()
	row := sheet.Row(i)
	if row == nil {
		return nil
	}
	rec = make([]string, 0, row.LastCol())
	for c := 0; c < row.LastCol(); c++ {
		rec = append(rec, row.Col(c))
	}
	return rec
}

// extractXML toma cada hijo de la raíz como una fila; atributos y elementos hijos son columnas.
// El parser es estricto: etiquetas sin cerrar o cruzadas rechazan el documento.
func extractXML(data []byte) (*Table, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = xmlCharsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, errors.New("documento XML sin elemento raíz")
	}
	b := newTableBuilder()
	for _, item := range root.ChildElements() {
		row := Row{}
		for _, a := range item.Attr {
			b.set(row, a.Key, a.Value)
		}
		for _, child := range item.ChildElements() {
			b.set(row, child.Tag, strings.TrimSpace(child.Text()))
		}
		b.add(row)
	}
	return b.table(), nil
}

// xmlCharsetReader acepta documentos declarados en Latin-1 o Windows-1252
// (exportaciones de planillas antiguas); el resto se lee tal cual.
func xmlCharsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "iso8859-1", "latin1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	}
	return input, nil
}

type tableBuilder struct {
	columns []string
	seen    map[string]bool
	rows    []Row
}

func newTableBuilder() *tableBuilder {
	return &tableBuilder{seen: map[string]bool{}}
}

func (b *tableBuilder) set(row Row, name, value string) {
	col := NormalizeColumn(name)
	if !b.seen[col] {
		b.seen[col] = true
		b.columns = append(b.columns, col)
	}
	row[col] = value
}

func (b *tableBuilder) add(row Row) { b.rows = append(b.rows, row) }

func (b *tableBuilder) table() *Table {
	return &Table{Columns: b.columns, Rows: b.rows}
}
