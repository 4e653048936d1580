package repository

import (
	"context"

	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// NameFilter filtro de listados para entidades con nombre (marca, categoría, proveedor).
type NameFilter struct {
	Name string // icontains
}

// BrandRepository define el puerto de persistencia para Brand (DIP).
type BrandRepository interface {
	Create(ctx context.Context, b *entity.Brand) error
	GetByID(ctx context.Context, id int64) (*entity.Brand, error)
	Update(ctx context.Context, b *entity.Brand) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f NameFilter, limit, offset int) ([]*entity.Brand, int, error)
	ListAll(ctx context.Context) ([]*entity.Brand, error)
}

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f NameFilter, limit, offset int) ([]*entity.Category, int, error)
	ListAll(ctx context.Context) ([]*entity.Category, error)
}

// SupplierRepository define el puerto de persistencia para Supplier.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id int64) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f NameFilter, limit, offset int) ([]*entity.Supplier, int, error)
	ListAll(ctx context.Context) ([]*entity.Supplier, error)
}

// ProductModelFilter filtro del listado de modelos.
type ProductModelFilter struct {
	Name    string
	BrandID int64
}

// ProductModelRepository define el puerto de persistencia para ProductModel.
type ProductModelRepository interface {
	Create(ctx context.Context, m *entity.ProductModel) error
	GetByID(ctx context.Context, id int64) (*entity.ProductModel, error)
	Update(ctx context.Context, m *entity.ProductModel) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ProductModelFilter, limit, offset int) ([]*entity.ProductModel, int, error)
	ListAll(ctx context.Context) ([]*entity.ProductModel, error)
}
