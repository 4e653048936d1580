package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ repository.MetricsRepository = (*MetricsRepo)(nil)

// MetricsRepo consultas de solo lectura para el dashboard.
type MetricsRepo struct {
	q Querier
}

// NewMetricsRepository construye el adaptador de métricas.
func NewMetricsRepository(q Querier) *MetricsRepo {
	return &MetricsRepo{q: q}
}

// StockTotals suma cantidades y valor del stock actual a precio de costo y de venta.
// Usa COALESCE para devolver cero si no hay productos.
func (r *MetricsRepo) StockTotals(ctx context.Context) (repository.StockTotals, error) {
	const query = `
	SELECT
	    COALESCE(SUM(quantity),              0) AS quantity,
	    COALESCE(SUM(cost_price * quantity), 0) AS cost_value,
	    COALESCE(SUM(sell_price * quantity), 0) AS sell_value
	FROM products`

	var t repository.StockTotals
	if err := r.q.QueryRow(ctx, query).Scan(&t.Quantity, &t.CostValue, &t.SellValue); err != nil {
		return t, fmt.Errorf("metrics.StockTotals: %w", err)
	}
	return t, nil
}

// SalesTotals agrega todas las salidas con los precios actuales del producto.
func (r *MetricsRepo) SalesTotals(ctx context.Context) (repository.SalesTotals, error) {
	const query = `
	SELECT
	    COUNT(o.id)                                  AS sales,
	    COALESCE(SUM(o.quantity),                0) AS quantity,
	    COALESCE(SUM(o.quantity * p.cost_price), 0) AS cost_value,
	    COALESCE(SUM(o.quantity * p.sell_price), 0) AS sell_value
	FROM outflows o
	JOIN products p ON p.id = o.product_id`

	var t repository.SalesTotals
	if err := r.q.QueryRow(ctx, query).Scan(&t.Count, &t.Quantity, &t.CostValue, &t.SellValue); err != nil {
		return t, fmt.Errorf("metrics.SalesTotals: %w", err)
	}
	return t, nil
}

// DailySalesValue devuelve Σ(quantity × sell_price) por día en [from, to]; los días sin ventas valen 0.
func (r *MetricsRepo) DailySalesValue(ctx context.Context, from, to time.Time) ([]repository.DailyPoint, error) {
	const query = `
	SELECT d.day, COALESCE(SUM(o.quantity * p.sell_price), 0)
	FROM generate_series($1::date, $2::date, interval '1 day') AS d(day)
	LEFT JOIN outflows o ON (o.created_at AT TIME ZONE 'UTC')::date = d.day::date
	LEFT JOIN products p ON p.id = o.product_id
	GROUP BY d.day
	ORDER BY d.day`
	return r.daily(ctx, "metrics.DailySalesValue", query, from, to)
}

// DailySalesCount devuelve la cantidad de salidas (registros) por día en [from, to].
func (r *MetricsRepo) DailySalesCount(ctx context.Context, from, to time.Time) ([]repository.DailyPoint, error) {
	const query = `
	SELECT d.day, COUNT(o.id)::numeric
	FROM generate_series($1::date, $2::date, interval '1 day') AS d(day)
	LEFT JOIN outflows o ON (o.created_at AT TIME ZONE 'UTC')::date = d.day::date
	GROUP BY d.day
	ORDER BY d.day`
	return r.daily(ctx, "metrics.DailySalesCount", query, from, to)
}

func (r *MetricsRepo) daily(ctx context.Context, op, query string, from, to time.Time) ([]repository.DailyPoint, error) {
	rows, err := r.q.Query(ctx, query, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var points []repository.DailyPoint
	for rows.Next() {
		var p repository.DailyPoint
		if err := rows.Scan(&p.Day, &p.Value); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		p.Day = p.Day.UTC()
		points = append(points, p)
	}
	return points, rows.Err()
}

// ProductsByCategory cuenta productos por categoría (incluye categorías vacías).
func (r *MetricsRepo) ProductsByCategory(ctx context.Context) ([]repository.NamedCount, error) {
	const query = `
	SELECT c.name, COUNT(p.id)
	FROM categories c
	LEFT JOIN products p ON p.category_id = c.id
	GROUP BY c.id, c.name
	ORDER BY c.name`
	return r.named(ctx, "metrics.ProductsByCategory", query)
}

// ProductsByBrand cuenta productos por marca a través del modelo.
func (r *MetricsRepo) ProductsByBrand(ctx context.Context) ([]repository.NamedCount, error) {
	const query = `
	SELECT b.name, COUNT(p.id)
	FROM brands b
	LEFT JOIN product_models m ON m.brand_id = b.id
	LEFT JOIN products p       ON p.product_model_id = m.id
	GROUP BY b.id, b.name
	ORDER BY b.name`
	return r.named(ctx, "metrics.ProductsByBrand", query)
}

func (r *MetricsRepo) named(ctx context.Context, op, query string) ([]repository.NamedCount, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []repository.NamedCount
	for rows.Next() {
		var nc repository.NamedCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, nc)
	}
	return out, rows.Err()
}
