package entity

import (
	"time"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// ProductModel modelo comercial de un producto, perteneciente a una marca.
type ProductModel struct {
	ID          int64
	Name        string `validate:"required,max=100"`
	BrandID     int64  `validate:"required,gt=0"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// BrandName se completa en lecturas con JOIN; vacío en escrituras.
	BrandName string
}

// String devuelve "nombre - marca".
func (m *ProductModel) String() string {
	if m.BrandName == "" {
		return m.Name
	}
	return m.Name + " - " + m.BrandName
}

// Schema implementa catalog.Exportable.
func (m *ProductModel) Schema() catalog.Schema { return catalog.MustSchema(catalog.TypeProductModel) }

// ToRecord implementa catalog.Exportable.
func (m *ProductModel) ToRecord() catalog.Record {
	return catalog.Record{
		"id":          m.ID,
		"name":        m.Name,
		"brand":       catalog.Ref{ID: m.BrandID, Label: m.BrandName},
		"description": m.Description,
		"created_at":  m.CreatedAt,
		"updated_at":  m.UpdatedAt,
	}
}
