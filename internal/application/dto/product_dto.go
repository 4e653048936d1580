package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Title          string          `json:"title" validate:"required,max=500"`
	ProductModelID int64           `json:"product_model" validate:"required,gt=0"`
	CategoryID     int64           `json:"category" validate:"required,gt=0"`
	Description    string          `json:"description"`
	SerialNumber   string          `json:"serial_number" validate:"max=200"`
	CostPrice      decimal.Decimal `json:"cost_price" validate:"decimal_gte0"`
	SellPrice      decimal.Decimal `json:"sell_price" validate:"decimal_gte0"`
	Quantity       int64           `json:"quantity"`
}

// UpdateProductRequest entrada para actualizar un producto.
// Quantity se acepta por compatibilidad pero no pasa por el libro de movimientos.
type UpdateProductRequest struct {
	Title          *string          `json:"title" validate:"omitempty,max=500"`
	ProductModelID *int64           `json:"product_model" validate:"omitempty,gt=0"`
	CategoryID     *int64           `json:"category" validate:"omitempty,gt=0"`
	Description    *string          `json:"description"`
	SerialNumber   *string          `json:"serial_number" validate:"omitempty,max=200"`
	CostPrice      *decimal.Decimal `json:"cost_price" validate:"omitempty,decimal_gte0"`
	SellPrice      *decimal.Decimal `json:"sell_price" validate:"omitempty,decimal_gte0"`
	Quantity       *int64           `json:"quantity"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	ProductModelID int64           `json:"product_model"`
	ProductModel   string          `json:"product_model_display"`
	CategoryID     int64           `json:"category"`
	Category       string          `json:"category_name"`
	Description    string          `json:"description"`
	SerialNumber   string          `json:"serial_number"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SellPrice      decimal.Decimal `json:"sell_price"`
	Quantity       int64           `json:"quantity"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
