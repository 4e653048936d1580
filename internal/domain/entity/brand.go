package entity

import (
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// Brand representa una marca de productos.
type Brand struct {
	ID          int64
	Name        string `validate:"required,max=100"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Brand) String() string { return b.Name }

// Schema implementa catalog.Exportable.
func (b *Brand) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeBrand) }

// ToRecord implementa catalog.Exportable.
func (b *Brand) ToRecord() catalog.Record {
	return catalog.Record{
		"id":          b.ID,
		"name":        b.Name,
		"description": b.Description,
		"created_at":  b.CreatedAt,
		"updated_at":  b.UpdatedAt,
	}
}
