package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// Product representa un producto del inventario.
// Quantity se ajusta vía entradas y salidas; puede quedar negativo (no hay control de stock mínimo).
type Product struct {
	ID             int64
	Title          string          `validate:"required,max=500"`
	ProductModelID int64           `validate:"required,gt=0"`
	CategoryID     int64           `validate:"required,gt=0"`
	Description    string
	SerialNumber   string          `validate:"max=200"`
	CostPrice      decimal.Decimal `validate:"decimal_gte0"`
	SellPrice      decimal.Decimal `validate:"decimal_gte0"`
	Quantity       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Etiquetas de las relaciones; se completan en lecturas con JOIN.
	ProductModelLabel string
	CategoryName      string
}

func (p *Product) String() string { return p.Title }

// Schema implementa catalog.Exportable.
func (p *Product) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeProduct) }

// ToRecord implementa catalog.Exportable.
func (p *Product) ToRecord() catalog.Record {
	return catalog.Record{
		"id":            p.ID,
		"title":         p.Title,
		"product_model": catalog.Ref{ID: p.ProductModelID, Label: p.ProductModelLabel},
		"category":      catalog.Ref{ID: p.CategoryID, Label: p.CategoryName},
		"description":   p.Description,
		"serial_number": p.SerialNumber,
		"cost_price":    p.CostPrice,
		"sell_price":    p.SellPrice,
		"quantity":      p.Quantity,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
}
