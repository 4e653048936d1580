package repository

import (
	"context"

	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// MovementFilter filtros comunes de entradas y salidas.
type MovementFilter struct {
	Product      string // título del producto, icontains
	SerialNumber string // icontains
	CategoryID   int64
	BrandID      int64
}

// InflowRepository define el puerto de persistencia para entradas.
// Update solo modifica el registro; nunca toca la cantidad del producto.
type InflowRepository interface {
	Create(ctx context.Context, in *entity.Inflow) error
	GetByID(ctx context.Context, id int64) (*entity.Inflow, error)
	Update(ctx context.Context, in *entity.Inflow) error
	List(ctx context.Context, f MovementFilter, limit, offset int) ([]*entity.Inflow, int, error)
	ListAll(ctx context.Context) ([]*entity.Inflow, error)
}

// OutflowRepository define el puerto de persistencia para salidas.
type OutflowRepository interface {
	Create(ctx context.Context, out *entity.Outflow) error
	GetByID(ctx context.Context, id int64) (*entity.Outflow, error)
	Update(ctx context.Context, out *entity.Outflow) error
	List(ctx context.Context, f MovementFilter, limit, offset int) ([]*entity.Outflow, int, error)
	ListAll(ctx context.Context) ([]*entity.Outflow, error)
}
