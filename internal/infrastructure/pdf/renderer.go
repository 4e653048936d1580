package pdf

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	appconfig "github.com/cllmenate/inventory-management/pkg/config"
)

// Renderer renderizador con recursos que liberar al apagar.
type Renderer interface {
	dataio.PDFRenderer
	Close() error
}

var (
	_ Renderer = (*MarotoRenderer)(nil)
	_ Renderer = (*ChromeRenderer)(nil)
)

// Close no retiene recursos.
func (r *MarotoRenderer) Close() error { return nil }

// New elige el renderizador según PDF_RENDERER (maroto | chrome).
func New(cfg appconfig.PDFConfig, log zerolog.Logger) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Renderer)) {
	case "", "maroto":
		return NewMarotoRenderer(), nil
	case "chrome", "chromedp":
		return NewChromeRenderer(ChromeConfig{
			RemoteURL: cfg.ChromeURL,
			Timeout:   cfg.Timeout,
			NoSandbox: true,
			Logger:    log,
		}), nil
	default:
		return nil, fmt.Errorf("pdf: renderizador desconocido %q", cfg.Renderer)
	}
}
