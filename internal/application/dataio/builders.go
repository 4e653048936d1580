package dataio

import (
	"context"
	"time"

	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// saver persiste una fila con los repositorios de la transacción de importación.
type saver func(ctx context.Context, repos repository.Repositories) error

// builder arma la entidad a validar y la función que la guarda.
type builder func(v values, now time.Time) (any, saver)

// Cada fila se guarda individualmente: entradas y salidas pasan por el libro
// de movimientos para que ajusten el stock igual que una alta manual.
var builders = map[catalog.EntityType]builder{
	catalog.TypeBrand: func(v values, now time.Time) (any, saver) {
		b := &entity.Brand{Name: v.str("name"), Description: v.str("description"), CreatedAt: now, UpdatedAt: now}
		return b, func(ctx context.Context, repos repository.Repositories) error {
			return repos.Brands.Create(ctx, b)
		}
	},
	catalog.TypeCategory: func(v values, now time.Time) (any, saver) {
		c := &entity.Category{Name: v.str("name"), Description: v.str("description"), CreatedAt: now, UpdatedAt: now}
		return c, func(ctx context.Context, repos repository.Repositories) error {
			return repos.Categories.Create(ctx, c)
		}
	},
	catalog.TypeSupplier: func(v values, now time.Time) (any, saver) {
		s := &entity.Supplier{Name: v.str("name"), Description: v.str("description"), CreatedAt: now, UpdatedAt: now}
		return s, func(ctx context.Context, repos repository.Repositories) error {
			return repos.Suppliers.Create(ctx, s)
		}
	},
	catalog.TypeProductModel: func(v values, now time.Time) (any, saver) {
		m := &entity.ProductModel{
			Name:        v.str("name"),
			BrandID:     v.int("brand"),
			Description: v.str("description"),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return m, func(ctx context.Context, repos repository.Repositories) error {
			return repos.ProductModels.Create(ctx, m)
		}
	},
	catalog.TypeProduct: func(v values, now time.Time) (any, saver) {
		p := &entity.Product{
			Title:          v.str("title"),
			ProductModelID: v.int("product_model"),
			CategoryID:     v.int("category"),
			Description:    v.str("description"),
			SerialNumber:   v.str("serial_number"),
			CostPrice:      v.dec("cost_price"),
			SellPrice:      v.dec("sell_price"),
			Quantity:       v.int("quantity"),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		return p, func(ctx context.Context, repos repository.Repositories) error {
			return repos.Products.Create(ctx, p)
		}
	},
	catalog.TypeInflow: func(v values, now time.Time) (any, saver) {
		in := &entity.Inflow{
			SupplierID:  v.int("supplier"),
			ProductID:   v.int("product"),
			Quantity:    v.int("quantity"),
			Description: v.str("description"),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return in, func(ctx context.Context, repos repository.Repositories) error {
			return inventory.RecordInflow(ctx, repos, in)
		}
	},
	catalog.TypeOutflow: func(v values, now time.Time) (any, saver) {
		out := &entity.Outflow{
			ProductID:   v.int("product"),
			Quantity:    v.int("quantity"),
			Description: v.str("description"),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return out, func(ctx context.Context, repos repository.Repositories) error {
			return inventory.RecordOutflow(ctx, repos, out)
		}
	},
}
