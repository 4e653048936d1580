package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ repository.MetricsRepository = (*MetricsRepo)(nil)

// MetricsRepo agregados del dashboard calculados sobre el estado en memoria.
type MetricsRepo struct{ s *Store }

// Metrics devuelve el repositorio de métricas del almacén.
func (s *Store) Metrics() *MetricsRepo { return &MetricsRepo{s} }

func (r *MetricsRepo) StockTotals(_ context.Context) (repository.StockTotals, error) {
	var t repository.StockTotals
	r.s.read(func(st *state) {
		for _, p := range st.products {
			q := decimal.NewFromInt(p.Quantity)
			t.Quantity += p.Quantity
			t.CostValue = t.CostValue.Add(p.CostPrice.Mul(q))
			t.SellValue = t.SellValue.Add(p.SellPrice.Mul(q))
		}
	})
	return t, nil
}

func (r *MetricsRepo) SalesTotals(_ context.Context) (repository.SalesTotals, error) {
	var t repository.SalesTotals
	r.s.read(func(st *state) {
		for _, o := range st.outflows {
			p := st.products[o.ProductID]
			q := decimal.NewFromInt(o.Quantity)
			t.Count++
			t.Quantity += o.Quantity
			t.CostValue = t.CostValue.Add(p.CostPrice.Mul(q))
			t.SellValue = t.SellValue.Add(p.SellPrice.Mul(q))
		}
	})
	return t, nil
}

func (r *MetricsRepo) DailySalesValue(_ context.Context, from, to time.Time) ([]repository.DailyPoint, error) {
	return r.daily(from, to, func(st *state, qty int64, productID int64) decimal.Decimal {
		return st.products[productID].SellPrice.Mul(decimal.NewFromInt(qty))
	}), nil
}

func (r *MetricsRepo) DailySalesCount(_ context.Context, from, to time.Time) ([]repository.DailyPoint, error) {
	return r.daily(from, to, func(*state, int64, int64) decimal.Decimal {
		return decimal.NewFromInt(1)
	}), nil
}

func (r *MetricsRepo) daily(from, to time.Time, value func(st *state, qty, productID int64) decimal.Decimal) []repository.DailyPoint {
	from, to = truncateDay(from), truncateDay(to)
	sums := map[time.Time]decimal.Decimal{}
	r.s.read(func(st *state) {
		for _, o := range st.outflows {
			day := truncateDay(o.CreatedAt)
			if day.Before(from) || day.After(to) {
				continue
			}
			sums[day] = sums[day].Add(value(st, o.Quantity, o.ProductID))
		}
	})
	var points []repository.DailyPoint
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		points = append(points, repository.DailyPoint{Day: d, Value: sums[d]})
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r *MetricsRepo) ProductsByCategory(_ context.Context) ([]repository.NamedCount, error) {
	var out []repository.NamedCount
	r.s.read(func(st *state) {
		for id, c := range st.categories {
			n := repository.NamedCount{Name: c.Name}
			for _, p := range st.products {
				if p.CategoryID == id {
					n.Count++
				}
			}
			out = append(out, n)
		}
	})
	sortedByName(out, func(n repository.NamedCount) string { return n.Name })
	return out, nil
}

func (r *MetricsRepo) ProductsByBrand(_ context.Context) ([]repository.NamedCount, error) {
	var out []repository.NamedCount
	r.s.read(func(st *state) {
		for id, b := range st.brands {
			n := repository.NamedCount{Name: b.Name}
			for _, p := range st.products {
				if st.models[p.ProductModelID].BrandID == id {
					n.Count++
				}
			}
			out = append(out, n)
		}
	})
	sortedByName(out, func(n repository.NamedCount) string { return n.Name })
	return out, nil
}
