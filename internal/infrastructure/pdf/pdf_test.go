package pdf

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	appconfig "github.com/cllmenate/inventory-management/pkg/config"
)

func sampleDocument() dataio.Document {
	return dataio.Document{
		Title:   "Marcas",
		Columns: []string{"id", "name", "description", "created_at", "updated_at"},
		Rows: [][]string{
			{"1", "Nike", "Calzado", "2024-01-15T14:30:00Z", "2024-01-15T14:30:00Z"},
			{"2", "Puma & Co <sport>", "", "2024-01-16T09:00:00Z", "2024-01-16T09:00:00Z"},
		},
		GeneratedAt: time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC),
	}
}

// ─── Maroto ──────────────────────────────────────────────────────────────────

func TestMarotoRenderer_GeneraPDF(t *testing.T) {
	out, err := NewMarotoRenderer().Render(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe empezar con la firma PDF")
}

func TestMarotoRenderer_SinFilas(t *testing.T) {
	doc := sampleDocument()
	doc.Rows = nil
	out, err := NewMarotoRenderer().Render(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestMarotoRenderer_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoRenderer().Render(ctx, sampleDocument())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "áéíó...", truncate("áéíóúáéíóú", 7))
}

// ─── Plantilla HTML ──────────────────────────────────────────────────────────

func TestRenderHTML_TablaCompleta(t *testing.T) {
	html, err := RenderHTML(sampleDocument())
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Marcas</title>")
	assert.Contains(t, html, "Generado: 15/01/2024 14:30")
	assert.Contains(t, html, "<th>description</th>")
	assert.Contains(t, html, "<td>Nike</td>")
	assert.Contains(t, html, "Total de registros: 2")
	assert.Equal(t, 2, strings.Count(html, "<tr><td>"))
}

func TestRenderHTML_EscapaContenido(t *testing.T) {
	html, err := RenderHTML(sampleDocument())
	require.NoError(t, err)
	assert.Contains(t, html, "Puma &amp; Co &lt;sport&gt;")
	assert.NotContains(t, html, "<sport>")
}

// ─── Selector ────────────────────────────────────────────────────────────────

func TestNew_SeleccionaRenderizador(t *testing.T) {
	r, err := New(appconfig.PDFConfig{Renderer: "maroto"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MarotoRenderer{}, r)

	r, err = New(appconfig.PDFConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &MarotoRenderer{}, r)

	r, err = New(appconfig.PDFConfig{Renderer: "chrome", ChromeURL: "ws://127.0.0.1:9222", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	c, ok := r.(*ChromeRenderer)
	require.True(t, ok)
	assert.Equal(t, time.Second, c.cfg.Timeout)
	assert.NoError(t, c.Close())

	_, err = New(appconfig.PDFConfig{Renderer: "wkhtml"}, zerolog.Nop())
	assert.Error(t, err)
}
