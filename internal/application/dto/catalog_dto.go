package dto

import "time"

// NamedRequest entrada para crear o actualizar marcas, categorías y proveedores.
type NamedRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// NamedResponse salida de marcas, categorías y proveedores.
type NamedResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NamedListResponse lista paginada.
type NamedListResponse struct {
	Items []NamedResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ProductModelRequest entrada para crear o actualizar un modelo de producto.
type ProductModelRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	BrandID     int64  `json:"brand" validate:"required,gt=0"`
	Description string `json:"description"`
}

// ProductModelResponse salida de un modelo de producto.
type ProductModelResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	BrandID     int64     `json:"brand"`
	BrandName   string    `json:"brand_name"`
	Description string    `json:"description"`
	Display     string    `json:"display"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductModelListResponse lista paginada de modelos.
type ProductModelListResponse struct {
	Items []ProductModelResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
