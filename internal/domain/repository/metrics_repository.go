package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockTotals agregados sobre el stock actual.
type StockTotals struct {
	Quantity  int64
	CostValue decimal.Decimal // Σ cost_price × quantity
	SellValue decimal.Decimal // Σ sell_price × quantity
}

// SalesTotals agregados sobre todas las salidas.
type SalesTotals struct {
	Count     int64
	Quantity  int64
	CostValue decimal.Decimal
	SellValue decimal.Decimal
}

// DailyPoint valor diario; Day es la fecha truncada (UTC).
type DailyPoint struct {
	Day   time.Time
	Value decimal.Decimal
}

// NamedCount conteo por nombre (categoría o marca).
type NamedCount struct {
	Name  string
	Count int64
}

// MetricsRepository consultas read-only para el dashboard.
type MetricsRepository interface {
	StockTotals(ctx context.Context) (StockTotals, error)
	SalesTotals(ctx context.Context) (SalesTotals, error)
	DailySalesValue(ctx context.Context, from, to time.Time) ([]DailyPoint, error)
	DailySalesCount(ctx context.Context, from, to time.Time) ([]DailyPoint, error)
	ProductsByCategory(ctx context.Context) ([]NamedCount, error)
	ProductsByBrand(ctx context.Context) ([]NamedCount, error)
}
