package dataio_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateAll(context.Context) error {
	c.calls++
	return nil
}

type env struct {
	store    *memory.Store
	repos    repository.Repositories
	inv      *countingInvalidator
	importer *dataio.Importer
}

func newEnv() *env {
	store := memory.NewStore()
	repos := store.Repositories()
	inv := &countingInvalidator{}
	return &env{
		store:    store,
		repos:    repos,
		inv:      inv,
		importer: dataio.NewImporter(store, repos.Lookup, inv, zerolog.Nop()),
	}
}

func (e *env) importString(t *testing.T, entity catalog.EntityType, format dataio.Format, content string, mapping map[string]string) (int, error) {
	t.Helper()
	return e.importer.Import(context.Background(), strings.NewReader(content), dataio.ImportRequest{
		Schema:  catalog.MustSchema(entity),
		Format:  format,
		Mapping: mapping,
	})
}

// seedProduct crea marca, modelo, categoría, proveedor y un producto con stock inicial.
func (e *env) seedProduct(t *testing.T, qty int64) *entity.Product {
	t.Helper()
	ctx := context.Background()
	brand := &entity.Brand{Name: "Nike"}
	require.NoError(t, e.repos.Brands.Create(ctx, brand))
	model := &entity.ProductModel{Name: "Air", BrandID: brand.ID}
	require.NoError(t, e.repos.ProductModels.Create(ctx, model))
	category := &entity.Category{Name: "Calçados"}
	require.NoError(t, e.repos.Categories.Create(ctx, category))
	require.NoError(t, e.repos.Suppliers.Create(ctx, &entity.Supplier{Name: "XYZ Corp"}))
	p := &entity.Product{
		Title:          "Tênis Air",
		ProductModelID: model.ID,
		CategoryID:     category.ID,
		CostPrice:      decimal.NewFromInt(100),
		SellPrice:      decimal.NewFromInt(250),
		Quantity:       qty,
	}
	require.NoError(t, e.repos.Products.Create(ctx, p))
	return p
}

func countBrands(t *testing.T, e *env) int {
	t.Helper()
	list, err := e.repos.Brands.ListAll(context.Background())
	require.NoError(t, err)
	return len(list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación: validación todo o nada
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_FilaInvalidaNoPersisteNinguna(t *testing.T) {
	e := newEnv()
	csv := "name,description\nAdidas,uno\n,dos\nPuma,tres\n"

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, csv, nil)

	assert.Equal(t, 0, n)
	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	require.Len(t, rowErr.Errors, 1)
	assert.Contains(t, rowErr.Errors[0], "Row 2")
	assert.Contains(t, rowErr.Errors[0], "name")
	assert.Equal(t, 0, countBrands(t, e))
	assert.Zero(t, e.inv.calls, "sin persistencia no se invalida caché")
}

func TestImport_CSVValidoCreaRegistrosEInvalidaCache(t *testing.T) {
	e := newEnv()
	csv := "\xEF\xBB\xBFName, Description \nAdidas,uno\nPuma,\"dos, con coma\"\n"

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, csv, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, countBrands(t, e))
	assert.Equal(t, 1, e.inv.calls)
}

func TestImport_CSVWindows1252(t *testing.T) {
	e := newEnv()
	csv := "name\nCal\xe7ados\n" // ç en Windows-1252

	_, err := e.importString(t, catalog.TypeCategory, dataio.FormatCSV, csv, nil)
	require.NoError(t, err)

	list, err := e.repos.Categories.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Calçados", list[0].Name)
}

func TestImport_CamposDeSoloLecturaSeIgnoran(t *testing.T) {
	e := newEnv()
	csv := "id,name,created_at\n999,Adidas,2020-01-01\n"

	_, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, csv, nil)
	require.NoError(t, err)

	list, _ := e.repos.Brands.ListAll(context.Background())
	require.Len(t, list, 1)
	assert.NotEqual(t, int64(999), list[0].ID)
}

func TestImport_ColumnaDesconocidaEsErrorDeFila(t *testing.T) {
	e := newEnv()
	csv := "name,color\nAdidas,azul\n"

	_, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, csv, nil)

	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	assert.Contains(t, rowErr.Errors[0], "Row 1")
	assert.Contains(t, rowErr.Errors[0], "color")
}

func TestImport_MapeoDescartaColumnasNoMapeadas(t *testing.T) {
	e := newEnv()
	csv := "Nome da Marca,Cor\nAdidas,azul\n"

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, csv, map[string]string{"Nome da Marca": "name"})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	list, _ := e.repos.Brands.ListAll(context.Background())
	assert.Equal(t, "Adidas", list[0].Name)
}

func TestImport_MapeoConColumnaAusenteDejaValorVacio(t *testing.T) {
	e := newEnv()
	csv := "otra\nx\n"

	_, err := e.importString(t, catalog.TypeBrand, dataio.FormatCSV, csv, map[string]string{"marca": "name"})

	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	assert.Contains(t, rowErr.Errors[0], "name: campo obligatorio")
}

func TestImport_DecimalInvalido(t *testing.T) {
	e := newEnv()
	p := e.seedProduct(t, 0)
	csv := "title,product_model,category,cost_price,sell_price\nNuevo,Air,Calçados,abc,10\n"

	_, err := e.importString(t, catalog.TypeProduct, dataio.FormatCSV, csv, nil)

	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	assert.Contains(t, rowErr.Errors[0], "cost_price")
	all, _ := e.repos.Products.ListAll(context.Background())
	assert.Len(t, all, 1, "solo el producto sembrado %d", p.ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolución de relaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_RelacionPorNombreSinDistinguirMayusculasYPorID(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	brand := &entity.Brand{Name: "Nike"}
	require.NoError(t, e.repos.Brands.Create(ctx, brand))

	csv := "name,brand\nAir,nike\nZoom," + itoa(brand.ID) + "\n"
	n, err := e.importString(t, catalog.TypeProductModel, dataio.FormatCSV, csv, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	models, _ := e.repos.ProductModels.ListAll(ctx)
	for _, m := range models {
		assert.Equal(t, brand.ID, m.BrandID)
	}
}

func TestImport_RelacionInexistenteOAmbigua(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	require.NoError(t, e.repos.Brands.Create(ctx, &entity.Brand{Name: "Dup"}))
	require.NoError(t, e.repos.Brands.Create(ctx, &entity.Brand{Name: "Dup"}))

	csv := "name,brand\nA,Dup\nB,Nada\nC,999\n"
	_, err := e.importString(t, catalog.TypeProductModel, dataio.FormatCSV, csv, nil)

	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	require.Len(t, rowErr.Errors, 3)
	assert.Contains(t, rowErr.Errors[0], "Row 1")
	assert.Contains(t, rowErr.Errors[0], "más de un")
	assert.Contains(t, rowErr.Errors[1], "Row 2")
	assert.Contains(t, rowErr.Errors[1], `no se encontró Brand "Nada"`)
	assert.Contains(t, rowErr.Errors[2], `"999"`)
}

func TestRelationNotFoundError_Mensaje(t *testing.T) {
	err := &dataio.RelationNotFoundError{Field: "product", Value: "X", Related: catalog.TypeProduct}
	assert.Equal(t, `product: no se encontró Product "X"`, err.Error())
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos importados ajustan stock
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_EntradasYSalidasAjustanStock(t *testing.T) {
	e := newEnv()
	ctx := context.Background()
	p := e.seedProduct(t, 10)

	_, err := e.importString(t, catalog.TypeInflow, dataio.FormatCSV,
		"supplier,product,quantity\nXYZ Corp,Tênis Air,5\nxyz corp,"+itoa(p.ID)+",2\n", nil)
	require.NoError(t, err)
	_, err = e.importString(t, catalog.TypeOutflow, dataio.FormatCSV,
		"product,quantity,description\nTênis Air,4,venda\n", nil)
	require.NoError(t, err)

	got, err := e.repos.Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(13), got.Quantity)
	inflows, _ := e.repos.Inflows.ListAll(ctx)
	assert.Len(t, inflows, 2)
}

func TestImport_SalidaConCantidadCeroRechazaLote(t *testing.T) {
	e := newEnv()
	p := e.seedProduct(t, 10)

	_, err := e.importString(t, catalog.TypeOutflow, dataio.FormatCSV,
		"product,quantity\nTênis Air,1\nTênis Air,0\n", nil)

	var rowErr *dataio.RowValidationError
	require.ErrorAs(t, err, &rowErr)
	assert.Contains(t, rowErr.Errors[0], "Row 2")
	got, _ := e.repos.Products.GetByID(context.Background(), p.ID)
	assert.Equal(t, int64(10), got.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Extracción por formato
// ──────────────────────────────────────────────────────────────────────────────

func TestImport_JSON(t *testing.T) {
	e := newEnv()
	e.seedProduct(t, 0)
	js := `[{"Title":"Bola","product_model":"Air","category":"calçados","cost_price":12.5,"sell_price":"20,90","quantity":3}]`

	n, err := e.importString(t, catalog.TypeProduct, dataio.FormatJSON, js, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	list, _, err := e.repos.Products.List(context.Background(), repository.ProductFilter{Title: "bola"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.RequireFromString("20.90").Equal(list[0].SellPrice))
	assert.Equal(t, int64(3), list[0].Quantity)
}

func TestImport_XMLConAtributosYElementos(t *testing.T) {
	e := newEnv()
	xml := `<?xml version="1.0"?>
<data>
    <item name="Adidas"><description>alemã</description></item>
    <item><name>Puma</name></item>
</data>`

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatXML, xml, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImport_XMLLatin1(t *testing.T) {
	e := newEnv()
	// "alemã" en ISO-8859-1: ã = 0xE3
	xml := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<data><item><name>Adidas</name><description>alem\xe3</description></item></data>"

	n, err := e.importString(t, catalog.TypeBrand, dataio.FormatXML, xml, nil)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	brands, err := e.repos.Brands.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "alemã", brands[0].Description)
}

func TestImport_XLSXPrimeraHoja(t *testing.T) {
	e := newEnv()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Description"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Adidas", "uno"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"Puma"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	n, err := e.importer.Import(context.Background(), bytes.NewReader(buf.Bytes()), dataio.ImportRequest{
		Schema: catalog.MustSchema(catalog.TypeBrand),
		Format: dataio.FormatXLSX,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImport_ArchivoCorruptoEsErrorDeExtraccion(t *testing.T) {
	e := newEnv()

	_, err := e.importString(t, catalog.TypeBrand, dataio.FormatXLSX, "no es un zip", nil)

	var exErr *dataio.ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, dataio.FormatXLSX, exErr.Format)
}

func TestFormatos_NoSoportados(t *testing.T) {
	var unsupported *dataio.UnsupportedFormatError

	_, err := dataio.ParseImportFormat("txt")
	assert.ErrorAs(t, err, &unsupported)
	_, err = dataio.ParseExportFormat("xlsx")
	assert.ErrorAs(t, err, &unsupported)
	_, err = dataio.Extract(dataio.FormatPDF, strings.NewReader(""))
	assert.ErrorAs(t, err, &unsupported)

	f, err := dataio.FormatFromFilename("Planilha.XLS")
	require.NoError(t, err)
	assert.Equal(t, dataio.FormatXLS, f)
}

func TestNormalizeColumn(t *testing.T) {
	assert.Equal(t, "product_model", dataio.NormalizeColumn("  Product Model "))
	assert.Equal(t, "cost_price", dataio.NormalizeColumn("COST_PRICE"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct {
	doc dataio.Document
	err error
}

func (f *fakePDF) Render(_ context.Context, doc dataio.Document) ([]byte, error) {
	f.doc = doc
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestExport_CSVIdaYVuelta(t *testing.T) {
	src := newEnv()
	ctx := context.Background()
	require.NoError(t, src.repos.Brands.Create(ctx, &entity.Brand{Name: "Adidas", Description: "uno, dos"}))
	require.NoError(t, src.repos.Brands.Create(ctx, &entity.Brand{Name: "Puma"}))

	exp := dataio.NewExporter(src.repos.Lookup, nil)
	res, err := exp.ExportAll(ctx, catalog.MustSchema(catalog.TypeBrand), dataio.FormatCSV, "brands")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.Equal(t, "brands.csv", res.Filename)
	assert.True(t, strings.HasPrefix(string(res.Content), "id,name,description,created_at,updated_at\n"))

	dst := newEnv()
	n, err := dst.importer.Import(ctx, bytes.NewReader(res.Content), dataio.ImportRequest{
		Schema: catalog.MustSchema(catalog.TypeBrand),
		Format: dataio.FormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	list, _ := dst.repos.Brands.ListAll(ctx)
	names := []string{list[0].Name, list[1].Name}
	assert.ElementsMatch(t, []string{"Adidas", "Puma"}, names)
}

func TestExport_JSONClavesEnOrdenYEtiquetas(t *testing.T) {
	e := newEnv()
	e.seedProduct(t, 7)

	exp := dataio.NewExporter(e.repos.Lookup, nil)
	res, err := exp.ExportAll(context.Background(), catalog.MustSchema(catalog.TypeProduct), dataio.FormatJSON, "products")
	require.NoError(t, err)

	body := string(res.Content)
	assert.Equal(t, "application/json", res.ContentType)
	assert.Contains(t, body, `"product_model": "Air - Nike"`)
	assert.Contains(t, body, `"category": "Calçados"`)
	assert.Contains(t, body, `"cost_price": 100.00`)
	assert.Contains(t, body, "\n        \"id\"", "indentación de 4 espacios")
	assert.Less(t, strings.Index(body, `"id"`), strings.Index(body, `"title"`))
	assert.Less(t, strings.Index(body, `"title"`), strings.Index(body, `"quantity"`))
}

func TestExport_XML(t *testing.T) {
	e := newEnv()
	require.NoError(t, e.repos.Suppliers.Create(context.Background(), &entity.Supplier{Name: "A & B"}))

	exp := dataio.NewExporter(e.repos.Lookup, nil)
	res, err := exp.ExportAll(context.Background(), catalog.MustSchema(catalog.TypeSupplier), dataio.FormatXML, "suppliers")
	require.NoError(t, err)

	body := string(res.Content)
	assert.Equal(t, "application/xml", res.ContentType)
	assert.Contains(t, body, "<data>")
	assert.Contains(t, body, "<item>")
	assert.Contains(t, body, "<name>A &amp; B</name>")
}

func TestExport_PDF(t *testing.T) {
	e := newEnv()
	e.seedProduct(t, 1)
	schema := catalog.MustSchema(catalog.TypeProduct)

	t.Run("renderiza documento", func(t *testing.T) {
		pdf := &fakePDF{}
		res, err := dataio.NewExporter(e.repos.Lookup, pdf).ExportAll(context.Background(), schema, dataio.FormatPDF, "products")
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", res.ContentType)
		assert.Equal(t, "products.pdf", res.Filename)
		assert.Equal(t, "Produtos", pdf.doc.Title)
		assert.Equal(t, schema.FieldNames(), pdf.doc.Columns)
		require.Len(t, pdf.doc.Rows, 1)
	})

	t.Run("fallo del renderizador", func(t *testing.T) {
		pdf := &fakePDF{err: errors.New("chrome caído")}
		_, err := dataio.NewExporter(e.repos.Lookup, pdf).ExportAll(context.Background(), schema, dataio.FormatPDF, "products")
		var renderErr *dataio.RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Contains(t, err.Error(), "chrome caído")
	})

	t.Run("sin renderizador", func(t *testing.T) {
		_, err := dataio.NewExporter(e.repos.Lookup, nil).ExportAll(context.Background(), schema, dataio.FormatPDF, "products")
		var renderErr *dataio.RenderError
		assert.ErrorAs(t, err, &renderErr)
	})
}

func TestAsyncStemYArtifactKey(t *testing.T) {
	at := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	stem := dataio.AsyncStem(catalog.MustSchema(catalog.TypeProductModel), at)

	assert.Equal(t, "productmodel_20240115_143000", stem)
	assert.Equal(t, "exports/2024/01/15/productmodel_20240115_143000.csv", dataio.ArtifactKey(stem+".csv", at))
}

func itoa(id int64) string {
	return decimal.NewFromInt(id).String()
}
