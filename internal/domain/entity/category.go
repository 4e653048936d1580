package entity

import (
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// Category representa una categoría de productos.
type Category struct {
	ID          int64
	Name        string `validate:"required,max=100"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) String() string { return c.Name }

// Schema implementa catalog.Exportable.
func (c *Category) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeCategory) }

// ToRecord implementa catalog.Exportable.
func (c *Category) ToRecord() catalog.Record {
	return catalog.Record{
		"id":          c.ID,
		"name":        c.Name,
		"description": c.Description,
		"created_at":  c.CreatedAt,
		"updated_at":  c.UpdatedAt,
	}
}
