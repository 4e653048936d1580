package entity

import (
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// Supplier proveedor asociado a las entradas de stock.
type Supplier struct {
	ID          int64
	Name        string `validate:"required,max=100"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Supplier) String() string { return s.Name }

// Schema implementa catalog.Exportable.
func (s *Supplier) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeSupplier) }

// ToRecord implementa catalog.Exportable.
func (s *Supplier) ToRecord() catalog.Record {
	return catalog.Record{
		"id":          s.ID,
		"name":        s.Name,
		"description": s.Description,
		"created_at":  s.CreatedAt,
		"updated_at":  s.UpdatedAt,
	}
}
