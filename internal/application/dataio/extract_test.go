package dataio_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// ──────────────────────────────────────────────────────────────────────────────
// Extracción: XLS
// ──────────────────────────────────────────────────────────────────────────────

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return data
}

func TestExtract_XLSPrimeraHoja(t *testing.T) {
	table, err := dataio.Extract(dataio.FormatXLS, bytes.NewReader(readFixture(t, "table.xls")))

	require.NoError(t, err)
	assert.Equal(t, []string{"code", "name", "description"}, table.Columns)
	require.Len(t, table.Rows, 11)
	assert.Equal(t, dataio.Row{"code": "code1", "name": "name1", "description": "description1"}, table.Rows[0])
	assert.Equal(t, "name11", table.Rows[10]["name"])
}

func TestImport_XLSConMapeo(t *testing.T) {
	e := newEnv()

	n, err := e.importer.Import(context.Background(), bytes.NewReader(readFixture(t, "table.xls")), dataio.ImportRequest{
		Schema:  catalog.MustSchema(catalog.TypeBrand),
		Format:  dataio.FormatXLS,
		Mapping: map[string]string{"name": "name", "description": "description"},
	})

	require.NoError(t, err)
	assert.Equal(t, 11, n)
	assert.Equal(t, 11, countBrands(t, e))
}

func TestExtract_XLSBasuraEsErrorDeExtraccion(t *testing.T) {
	for name, content := range map[string][]byte{
		"texto":       []byte("esto no es un libro de Excel"),
		"vacío":       {},
		"xlsx como xls": readXLSXHeader(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := dataio.Extract(dataio.FormatXLS, bytes.NewReader(content))

			var exErr *dataio.ExtractionError
			require.ErrorAs(t, err, &exErr)
			assert.Equal(t, dataio.FormatXLS, exErr.Format)
		})
	}
}

// readXLSXHeader cabecera zip de un .xlsx: formato válido, contenedor equivocado.
func readXLSXHeader() []byte {
	return append([]byte("PK\x03\x04"), bytes.Repeat([]byte{0}, 60)...)
}

// ──────────────────────────────────────────────────────────────────────────────
// Extracción: XML estricto
// ──────────────────────────────────────────────────────────────────────────────

func TestExtract_XMLMalFormadoEsErrorDeExtraccion(t *testing.T) {
	cases := map[string]string{
		"etiquetas cruzadas": `<data><item><name>A</item></data>`,
		"raíz sin cerrar":    `<data><item><name>A</name></item>`,
		"entidad html":       `<data><item><name>A&nbsp;B</name></item></data>`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := dataio.Extract(dataio.FormatXML, strings.NewReader(doc))

			var exErr *dataio.ExtractionError
			require.ErrorAs(t, err, &exErr)
			assert.Equal(t, dataio.FormatXML, exErr.Format)
		})
	}
}

func TestImport_XMLMalFormadoNoPersiste(t *testing.T) {
	e := newEnv()

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatXML, `<data><item><name>Adidas</item></data>`, nil)

	assert.Equal(t, 0, n)
	var exErr *dataio.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, 0, countBrands(t, e))
}

// ──────────────────────────────────────────────────────────────────────────────
// Extracción: columnas, filas en blanco y archivos vacíos
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeColumn_CadaEspacioEsUnGuionBajo(t *testing.T) {
	assert.Equal(t, "serial__number", dataio.NormalizeColumn("Serial  Number"))
	assert.Equal(t, "a_b_c", dataio.NormalizeColumn(" A B C\t"))
}

func TestImport_FilaCSVConCeldasVaciasEsErrorDeFila(t *testing.T) {
	e := newEnv()

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, "name,description\nAdidas,x\n,\nPuma,z\n", nil)

	assert.Equal(t, 0, n)
	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	require.Len(t, rowErr.Errors, 1)
	assert.Contains(t, rowErr.Errors[0], "Row 2")
	assert.Equal(t, 0, countBrands(t, e))
}

func TestExtract_LineaVaciaSeOmite(t *testing.T) {
	table, err := dataio.Extract(dataio.FormatCSV, strings.NewReader("name\nAdidas\n\nPuma\n"))

	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Puma", table.Rows[1]["name"])
}

func TestExtract_SinFilasDeDatosEsErrorDeExtraccion(t *testing.T) {
	cases := []struct {
		name    string
		format  dataio.Format
		content string
	}{
		{"csv vacío", dataio.FormatCSV, ""},
		{"csv solo encabezado", dataio.FormatCSV, "name,description\n"},
		{"json vacío", dataio.FormatJSON, "[]"},
		{"xml sin items", dataio.FormatXML, "<data/>"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dataio.Extract(tc.format, strings.NewReader(tc.content))

			var exErr *dataio.ExtractionError
			require.ErrorAs(t, err, &exErr)
			assert.ErrorIs(t, err, dataio.ErrNoRows)
		})
	}
}
