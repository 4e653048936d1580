package dto

import "time"

// CreateInflowRequest entrada para registrar una entrada de stock.
type CreateInflowRequest struct {
	SupplierID  int64  `json:"supplier" validate:"required,gt=0"`
	ProductID   int64  `json:"product" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
	Description string `json:"description"`
}

// UpdateInflowRequest edita el registro; no vuelve a aplicar el ajuste de stock.
type UpdateInflowRequest struct {
	SupplierID  *int64  `json:"supplier" validate:"omitempty,gt=0"`
	Quantity    *int64  `json:"quantity" validate:"omitempty,gt=0"`
	Description *string `json:"description"`
}

// InflowResponse salida de una entrada.
type InflowResponse struct {
	ID          int64     `json:"id"`
	SupplierID  int64     `json:"supplier"`
	Supplier    string    `json:"supplier_name"`
	ProductID   int64     `json:"product"`
	Product     string    `json:"product_title"`
	Quantity    int64     `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InflowListResponse lista paginada de entradas.
type InflowListResponse struct {
	Items []InflowResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}

// CreateOutflowRequest entrada para registrar una salida de stock.
type CreateOutflowRequest struct {
	ProductID   int64  `json:"product" validate:"required,gt=0"`
	Quantity    int64  `json:"quantity" validate:"gt=0"`
	Description string `json:"description"`
}

// UpdateOutflowRequest edita el registro; no vuelve a aplicar el ajuste de stock.
type UpdateOutflowRequest struct {
	Quantity    *int64  `json:"quantity" validate:"omitempty,gt=0"`
	Description *string `json:"description"`
}

// OutflowResponse salida de una salida de stock.
type OutflowResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product"`
	Product     string    `json:"product_title"`
	Quantity    int64     `json:"quantity"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OutflowListResponse lista paginada de salidas.
type OutflowListResponse struct {
	Items []OutflowResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
