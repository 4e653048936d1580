package entity

import (
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// Inflow entrada de stock desde un proveedor. Al crearse suma Quantity al producto.
type Inflow struct {
	ID          int64
	SupplierID  int64 `validate:"required,gt=0"`
	ProductID   int64 `validate:"required,gt=0"`
	Quantity    int64 `validate:"gt=0"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	SupplierName string
	ProductTitle string
}

// Delta cambio de cantidad que la entrada aplica al producto.
func (i *Inflow) Delta() int64 { return i.Quantity }

func (i *Inflow) String() string { return i.ProductTitle }

// Schema implementa catalog.Exportable.
func (i *Inflow) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeInflow) }

// ToRecord implementa catalog.Exportable.
func (i *Inflow) ToRecord() catalog.Record {
	return catalog.Record{
		"id":          i.ID,
		"supplier":    catalog.Ref{ID: i.SupplierID, Label: i.SupplierName},
		"product":     catalog.Ref{ID: i.ProductID, Label: i.ProductTitle},
		"quantity":    i.Quantity,
		"description": i.Description,
		"created_at":  i.CreatedAt,
		"updated_at":  i.UpdatedAt,
	}
}

// Outflow salida (venta) de stock. Al crearse resta Quantity al producto.
type Outflow struct {
	ID          int64
	ProductID   int64 `validate:"required,gt=0"`
	Quantity    int64 `validate:"gt=0"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ProductTitle string
}

// Delta cambio de cantidad que la salida aplica al producto.
func (o *Outflow) Delta() int64 { return -o.Quantity }

func (o *Outflow) String() string { return o.ProductTitle }

// Schema implementa catalog.Exportable.
func (o *Outflow) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeOutflow) }

// ToRecord implementa catalog.Exportable.
func (o *Outflow) ToRecord() catalog.Record {
	return catalog.Record{
		"id":          o.ID,
		"product":     catalog.Ref{ID: o.ProductID, Label: o.ProductTitle},
		"quantity":    o.Quantity,
		"description": o.Description,
		"created_at":  o.CreatedAt,
		"updated_at":  o.UpdatedAt,
	}
}
