package pdf

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
)

//go:embed templates/table.html
var templatesFS embed.FS

var tableTmpl = template.Must(template.ParseFS(templatesFS, "templates/table.html"))

const defaultChromeTimeout = 30 * time.Second

// A4 apaisado en pulgadas; márgenes de 10 mm.
const (
	a4LongInches  = 297 / 25.4
	a4ShortInches = 210 / 25.4
	marginInches  = 10 / 25.4
)

// ChromeConfig opciones del renderizador con Chrome headless.
type ChromeConfig struct {
	RemoteURL string // ws://host:9222; vacío = lanzar Chrome local
	Timeout   time.Duration
	NoSandbox bool // necesario dentro de contenedores sin usuario dedicado
	Logger    zerolog.Logger
}

// ChromeRenderer convierte la tabla en HTML y la imprime con Chrome vía CDP.
type ChromeRenderer struct {
	cfg         ChromeConfig
	log         zerolog.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeRenderer prepara el allocator (remoto o proceso local). Chrome se
// arranca de forma perezosa en el primer Render.
func NewChromeRenderer(cfg ChromeConfig) *ChromeRenderer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultChromeTimeout
	}
	r := &ChromeRenderer{cfg: cfg, log: cfg.Logger}

	if cfg.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return r
}

// Render genera el HTML de la tabla y lo imprime a PDF.
func (r *ChromeRenderer) Render(ctx context.Context, doc dataio.Document) ([]byte, error) {
	html, err := RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.log.Debug().Msgf(format, args...)
		}),
	)
	defer browserCancel()

	// el contexto del navegador vive en el allocator; se cancela junto con ctx
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	var out []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithLandscape(true).
				WithPaperWidth(a4ShortInches).
				WithPaperHeight(a4LongInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("pdf: chrome excedió %v: %w", r.cfg.Timeout, err)
		}
		r.log.Error().Err(err).Str("title", doc.Title).Msg("pdf: chromedp falló")
		return nil, fmt.Errorf("pdf: chromedp: %w", err)
	}
	if len(out) == 0 {
		return nil, errors.New("pdf: chrome devolvió un documento vacío")
	}
	r.log.Debug().Int("bytes", len(out)).Int("rows", len(doc.Rows)).Msg("pdf renderizado con chrome")
	return out, nil
}

// Close libera el allocator (y el proceso local de Chrome si existe).
func (r *ChromeRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// RenderHTML aplica la plantilla embebida al documento.
func RenderHTML(doc dataio.Document) (string, error) {
	var buf bytes.Buffer
	if err := tableTmpl.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("pdf: plantilla html: %w", err)
	}
	return buf.String(), nil
}
