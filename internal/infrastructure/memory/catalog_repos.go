package memory

import (
	"context"
	"fmt"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var (
	_ repository.BrandRepository        = BrandRepo{}
	_ repository.CategoryRepository     = CategoryRepo{}
	_ repository.SupplierRepository     = SupplierRepo{}
	_ repository.ProductModelRepository = ProductModelRepo{}
)

// BrandRepo marcas en memoria.
type BrandRepo struct{ s *Store }

func (r BrandRepo) Create(_ context.Context, b *entity.Brand) error {
	return r.s.write(func(st *state) error {
		b.ID = st.newID()
		st.brands[b.ID] = *b
		return nil
	})
}

func (r BrandRepo) GetByID(_ context.Context, id int64) (*entity.Brand, error) {
	var out *entity.Brand
	r.s.read(func(st *state) {
		if b, ok := st.brands[id]; ok {
			out = &b
		}
	})
	return out, nil
}

func (r BrandRepo) Update(_ context.Context, b *entity.Brand) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.brands[b.ID]; !ok {
			return domain.ErrNotFound
		}
		st.brands[b.ID] = *b
		return nil
	})
}

func (r BrandRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		for _, m := range st.models {
			if m.BrandID == id {
				return domain.ErrInUse
			}
		}
		delete(st.brands, id)
		return nil
	})
}

func (r BrandRepo) List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]*entity.Brand, int, error) {
	all, _ := r.ListAll(ctx)
	filtered := all[:0]
	for _, b := range all {
		if containsFold(b.Name, f.Name) {
			filtered = append(filtered, b)
		}
	}
	return page(filtered, limit, offset), len(filtered), nil
}

func (r BrandRepo) ListAll(_ context.Context) ([]*entity.Brand, error) {
	var out []*entity.Brand
	r.s.read(func(st *state) {
		for _, b := range st.brands {
			b := b
			out = append(out, &b)
		}
	})
	sortedByName(out, func(b *entity.Brand) string { return b.Name })
	return out, nil
}

// CategoryRepo categorías en memoria.
type CategoryRepo struct{ s *Store }

func (r CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	return r.s.write(func(st *state) error {
		c.ID = st.newID()
		st.categories[c.ID] = *c
		return nil
	})
}

func (r CategoryRepo) GetByID(_ context.Context, id int64) (*entity.Category, error) {
	var out *entity.Category
	r.s.read(func(st *state) {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
	})
	return out, nil
}

func (r CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.ErrNotFound
		}
		st.categories[c.ID] = *c
		return nil
	})
}

func (r CategoryRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		for _, p := range st.products {
			if p.CategoryID == id {
				return domain.ErrInUse
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func (r CategoryRepo) List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]*entity.Category, int, error) {
	all, _ := r.ListAll(ctx)
	filtered := all[:0]
	for _, c := range all {
		if containsFold(c.Name, f.Name) {
			filtered = append(filtered, c)
		}
	}
	return page(filtered, limit, offset), len(filtered), nil
}

func (r CategoryRepo) ListAll(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	r.s.read(func(st *state) {
		for _, c := range st.categories {
			c := c
			out = append(out, &c)
		}
	})
	sortedByName(out, func(c *entity.Category) string { return c.Name })
	return out, nil
}

// SupplierRepo proveedores en memoria.
type SupplierRepo struct{ s *Store }

func (r SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	return r.s.write(func(st *state) error {
		sp.ID = st.newID()
		st.suppliers[sp.ID] = *sp
		return nil
	})
}

func (r SupplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	var out *entity.Supplier
	r.s.read(func(st *state) {
		if sp, ok := st.suppliers[id]; ok {
			out = &sp
		}
	})
	return out, nil
}

func (r SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.suppliers[sp.ID]; !ok {
			return domain.ErrNotFound
		}
		st.suppliers[sp.ID] = *sp
		return nil
	})
}

func (r SupplierRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		for _, in := range st.inflows {
			if in.SupplierID == id {
				return domain.ErrInUse
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

func (r SupplierRepo) List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]*entity.Supplier, int, error) {
	all, _ := r.ListAll(ctx)
	filtered := all[:0]
	for _, sp := range all {
		if containsFold(sp.Name, f.Name) {
			filtered = append(filtered, sp)
		}
	}
	return page(filtered, limit, offset), len(filtered), nil
}

func (r SupplierRepo) ListAll(_ context.Context) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	r.s.read(func(st *state) {
		for _, sp := range st.suppliers {
			sp := sp
			out = append(out, &sp)
		}
	})
	sortedByName(out, func(sp *entity.Supplier) string { return sp.Name })
	return out, nil
}

// ProductModelRepo modelos en memoria; completa BrandName en lecturas.
type ProductModelRepo struct{ s *Store }

func (r ProductModelRepo) Create(_ context.Context, m *entity.ProductModel) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.brands[m.BrandID]; !ok {
			return fmt.Errorf("%w: marca %d", domain.ErrNotFound, m.BrandID)
		}
		m.ID = st.newID()
		st.models[m.ID] = *m
		return nil
	})
}

func (r ProductModelRepo) GetByID(_ context.Context, id int64) (*entity.ProductModel, error) {
	var out *entity.ProductModel
	r.s.read(func(st *state) {
		if m, ok := st.models[id]; ok {
			out = st.labelModel(m)
		}
	})
	return out, nil
}

func (r ProductModelRepo) Update(_ context.Context, m *entity.ProductModel) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.models[m.ID]; !ok {
			return domain.ErrNotFound
		}
		st.models[m.ID] = *m
		return nil
	})
}

func (r ProductModelRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		for _, p := range st.products {
			if p.ProductModelID == id {
				return domain.ErrInUse
			}
		}
		delete(st.models, id)
		return nil
	})
}

func (r ProductModelRepo) List(ctx context.Context, f repository.ProductModelFilter, limit, offset int) ([]*entity.ProductModel, int, error) {
	all, _ := r.ListAll(ctx)
	filtered := all[:0]
	for _, m := range all {
		if containsFold(m.Name, f.Name) && (f.BrandID == 0 || m.BrandID == f.BrandID) {
			filtered = append(filtered, m)
		}
	}
	return page(filtered, limit, offset), len(filtered), nil
}

func (r ProductModelRepo) ListAll(_ context.Context) ([]*entity.ProductModel, error) {
	var out []*entity.ProductModel
	r.s.read(func(st *state) {
		for _, m := range st.models {
			out = append(out, st.labelModel(m))
		}
	})
	sortedByName(out, func(m *entity.ProductModel) string { return m.Name })
	return out, nil
}

func (st *state) labelModel(m entity.ProductModel) *entity.ProductModel {
	m.BrandName = st.brands[m.BrandID].Name
	return &m
}
