// Package metrics calcula y cachea los agregados del dashboard.
//
// Un job periódico recalcula todas las claves con un TTL mayor que su intervalo,
// así las lecturas casi nunca encuentran la caché vacía. Ante un miss el valor
// se recalcula en línea (una sola vez por clave gracias a singleflight).
package metrics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// Claves de caché.
const (
	KeyProduct            = ports.MetricsKeyPrefix + "product"
	KeySales              = ports.MetricsKeyPrefix + "sales"
	KeyDailySales         = ports.MetricsKeyPrefix + "daily_sales"
	KeyDailySalesQuantity = ports.MetricsKeyPrefix + "daily_sales_quantity"
	KeyProductsByCategory = ports.MetricsKeyPrefix + "products_by_category"
	KeyProductsByBrand    = ports.MetricsKeyPrefix + "products_by_brand"
)

// dailyWindow días de la serie diaria, incluido hoy.
const dailyWindow = 31

// Config parámetros del servicio.
type Config struct {
	TTL    time.Duration
	Locale string // BCP 47; formato de montos
}

// Service métricas del dashboard con caché.
type Service struct {
	repo    repository.MetricsRepository
	cache   ports.Cache
	ttl     time.Duration
	printer *message.Printer
	group   singleflight.Group
	log     zerolog.Logger
	now     func() time.Time
}

// NewService construye el servicio. cache puede ser nil (siempre recalcula).
func NewService(repo repository.MetricsRepository, cache ports.Cache, cfg Config, log zerolog.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &Service{
		repo:    repo,
		cache:   cache,
		ttl:     cfg.TTL,
		printer: message.NewPrinter(tag),
		log:     log,
		now:     time.Now,
	}
}

// money formatea con 2 decimales y separador de miles según el locale.
func (s *Service) money(d decimal.Decimal) string {
	return s.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cálculo sin caché
// ──────────────────────────────────────────────────────────────────────────────

func (s *Service) computeProduct(ctx context.Context) (dto.ProductMetrics, error) {
	t, err := s.repo.StockTotals(ctx)
	if err != nil {
		return dto.ProductMetrics{}, err
	}
	return dto.ProductMetrics{
		TotalProducts:  t.Quantity,
		TotalCostPrice: s.money(t.CostValue),
		TotalSellPrice: s.money(t.SellValue),
		TotalProfit:    s.money(t.SellValue.Sub(t.CostValue)),
	}, nil
}

func (s *Service) computeSales(ctx context.Context) (dto.SalesMetrics, error) {
	t, err := s.repo.SalesTotals(ctx)
	if err != nil {
		return dto.SalesMetrics{}, err
	}
	return dto.SalesMetrics{
		TotalSales:       t.Count,
		TotalProductSold: t.Quantity,
		TotalCostPrice:   s.money(t.CostValue),
		TotalSellPrice:   s.money(t.SellValue),
		TotalProfit:      s.money(t.SellValue.Sub(t.CostValue)),
	}, nil
}

type dailyQuery func(ctx context.Context, from, to time.Time) ([]repository.DailyPoint, error)

// computeDaily arma la serie de los últimos 31 días; los días sin datos valen 0.
func (s *Service) computeDaily(ctx context.Context, query dailyQuery) (dto.DailySeries, error) {
	now := s.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -(dailyWindow - 1))

	points, err := query(ctx, from, to)
	if err != nil {
		return dto.DailySeries{}, err
	}
	byDay := make(map[string]decimal.Decimal, len(points))
	for _, p := range points {
		byDay[p.Day.UTC().Format(time.DateOnly)] = p.Value
	}
	series := dto.DailySeries{
		Dates:  make([]string, 0, dailyWindow),
		Values: make([]float64, 0, dailyWindow),
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		series.Dates = append(series.Dates, key)
		series.Values = append(series.Values, byDay[key].InexactFloat64())
	}
	return series, nil
}

type namedQuery func(ctx context.Context) ([]repository.NamedCount, error)

func computeNamed(ctx context.Context, query namedQuery) (map[string]int64, error) {
	list, err := query(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(list))
	for _, n := range list {
		out[n.Name] += n.Count
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas con caché
// ──────────────────────────────────────────────────────────────────────────────

// cached lee key; ante un miss recalcula con compute y guarda el resultado.
func cached[T any](ctx context.Context, s *Service, key string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida; se recalcula")
		} else if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
			s.log.Warn().Str("key", key).Msg("valor de caché corrupto; se recalcula")
		}
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := s.store(ctx, key, v); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("no se pudo escribir la caché")
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (s *Service) store(ctx context.Context, key string, v any) error {
	if s.cache == nil {
		return nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, raw, s.ttl)
}

func (s *Service) ProductMetrics(ctx context.Context) (dto.ProductMetrics, error) {
	return cached(ctx, s, KeyProduct, s.computeProduct)
}

func (s *Service) SalesMetrics(ctx context.Context) (dto.SalesMetrics, error) {
	return cached(ctx, s, KeySales, s.computeSales)
}

func (s *Service) DailySales(ctx context.Context) (dto.DailySeries, error) {
	return cached(ctx, s, KeyDailySales, func(ctx context.Context) (dto.DailySeries, error) {
		return s.computeDaily(ctx, s.repo.DailySalesValue)
	})
}

func (s *Service) DailySalesQuantity(ctx context.Context) (dto.DailySeries, error) {
	return cached(ctx, s, KeyDailySalesQuantity, func(ctx context.Context) (dto.DailySeries, error) {
		return s.computeDaily(ctx, s.repo.DailySalesCount)
	})
}

func (s *Service) ProductsByCategory(ctx context.Context) (map[string]int64, error) {
	return cached(ctx, s, KeyProductsByCategory, func(ctx context.Context) (map[string]int64, error) {
		return computeNamed(ctx, s.repo.ProductsByCategory)
	})
}

func (s *Service) ProductsByBrand(ctx context.Context) (map[string]int64, error) {
	return cached(ctx, s, KeyProductsByBrand, func(ctx context.Context) (map[string]int64, error) {
		return computeNamed(ctx, s.repo.ProductsByBrand)
	})
}

// Dashboard devuelve las seis métricas, leídas en paralelo.
func (s *Service) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	var out dto.DashboardResponse
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { out.ProductMetrics, err = s.ProductMetrics(gctx); return })
	g.Go(func() (err error) { out.SalesMetrics, err = s.SalesMetrics(gctx); return })
	g.Go(func() (err error) { out.DailySales, err = s.DailySales(gctx); return })
	g.Go(func() (err error) { out.DailySalesQuantity, err = s.DailySalesQuantity(gctx); return })
	g.Go(func() (err error) { out.ProductsByCategory, err = s.ProductsByCategory(gctx); return })
	g.Go(func() (err error) { out.ProductsByBrand, err = s.ProductsByBrand(gctx); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Refresco e invalidación
// ──────────────────────────────────────────────────────────────────────────────

// Refresh recalcula todas las claves en paralelo y las escribe con el TTL.
func (s *Service) Refresh(ctx context.Context) error {
	started := s.now()
	g, gctx := errgroup.WithContext(ctx)
	refresh := func(key string, compute func(context.Context) (any, error)) {
		g.Go(func() error {
			v, err := compute(gctx)
			if err != nil {
				return err
			}
			return s.store(gctx, key, v)
		})
	}
	refresh(KeyProduct, func(ctx context.Context) (any, error) { return s.computeProduct(ctx) })
	refresh(KeySales, func(ctx context.Context) (any, error) { return s.computeSales(ctx) })
	refresh(KeyDailySales, func(ctx context.Context) (any, error) { return s.computeDaily(ctx, s.repo.DailySalesValue) })
	refresh(KeyDailySalesQuantity, func(ctx context.Context) (any, error) { return s.computeDaily(ctx, s.repo.DailySalesCount) })
	refresh(KeyProductsByCategory, func(ctx context.Context) (any, error) { return computeNamed(ctx, s.repo.ProductsByCategory) })
	refresh(KeyProductsByBrand, func(ctx context.Context) (any, error) { return computeNamed(ctx, s.repo.ProductsByBrand) })
	if err := g.Wait(); err != nil {
		s.log.Error().Err(err).Msg("error al refrescar métricas")
		return err
	}
	s.log.Info().Dur("duration", time.Since(started)).Msg("métricas refrescadas")
	return nil
}

// InvalidateAll descarta métricas y listados cacheados.
func (s *Service) InvalidateAll(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	for _, prefix := range []string{ports.MetricsKeyPrefix, ports.ListKeyPrefix} {
		if err := s.cache.DeletePrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}
