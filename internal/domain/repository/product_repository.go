package repository

import (
	"context"

	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Title          string // icontains
	SerialNumber   string // icontains
	CategoryID     int64
	ProductModelID int64
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ProductFilter, limit, offset int) ([]*entity.Product, int, error)
	ListAll(ctx context.Context) ([]*entity.Product, error)
	// AdjustQuantity suma delta de forma atómica y devuelve la cantidad resultante.
	// Devuelve domain.ErrNotFound si el producto no existe.
	AdjustQuantity(ctx context.Context, productID, delta int64) (int64, error)
}
