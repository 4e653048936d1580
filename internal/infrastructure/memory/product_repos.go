package memory

import (
	"context"
	"fmt"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var (
	_ repository.ProductRepository = ProductRepo{}
	_ repository.InflowRepository  = InflowRepo{}
	_ repository.OutflowRepository = OutflowRepo{}
)

// ProductRepo productos en memoria.
type ProductRepo struct{ s *Store }

func (r ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.models[p.ProductModelID]; !ok {
			return fmt.Errorf("%w: modelo %d", domain.ErrNotFound, p.ProductModelID)
		}
		if _, ok := st.categories[p.CategoryID]; !ok {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, p.CategoryID)
		}
		p.ID = st.newID()
		st.products[p.ID] = *p
		return nil
	})
}

func (r ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	r.s.read(func(st *state) {
		if p, ok := st.products[id]; ok {
			out = st.labelProduct(p)
		}
	})
	return out, nil
}

func (r ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.ErrNotFound
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r ProductRepo) Delete(_ context.Context, id int64) error {
	return r.s.write(func(st *state) error {
		for _, in := range st.inflows {
			if in.ProductID == id {
				return domain.ErrInUse
			}
		}
		for _, out := range st.outflows {
			if out.ProductID == id {
				return domain.ErrInUse
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (r ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	all, _ := r.ListAll(ctx)
	filtered := all[:0]
	for _, p := range all {
		if !containsFold(p.Title, f.Title) || !containsFold(p.SerialNumber, f.SerialNumber) {
			continue
		}
		if (f.CategoryID != 0 && p.CategoryID != f.CategoryID) || (f.ProductModelID != 0 && p.ProductModelID != f.ProductModelID) {
			continue
		}
		filtered = append(filtered, p)
	}
	return page(filtered, limit, offset), len(filtered), nil
}

func (r ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	var out []*entity.Product
	r.s.read(func(st *state) {
		for _, p := range st.products {
			out = append(out, st.labelProduct(p))
		}
	})
	sortedByName(out, func(p *entity.Product) string { return p.Title })
	return out, nil
}

// AdjustQuantity suma delta bajo el mutex del almacén.
func (r ProductRepo) AdjustQuantity(_ context.Context, productID, delta int64) (int64, error) {
	var qty int64
	err := r.s.write(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
		}
		p.Quantity += delta
		st.products[productID] = p
		qty = p.Quantity
		return nil
	})
	return qty, err
}

func (st *state) labelProduct(p entity.Product) *entity.Product {
	if m, ok := st.models[p.ProductModelID]; ok {
		p.ProductModelLabel = st.labelModel(m).String()
	}
	p.CategoryName = st.categories[p.CategoryID].Name
	return &p
}

func (st *state) matchMovement(productID int64, f repository.MovementFilter) bool {
	p := st.products[productID]
	if !containsFold(p.Title, f.Product) || !containsFold(p.SerialNumber, f.SerialNumber) {
		return false
	}
	if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
		return false
	}
	if f.BrandID != 0 && st.models[p.ProductModelID].BrandID != f.BrandID {
		return false
	}
	return true
}

// InflowRepo entradas en memoria.
type InflowRepo struct{ s *Store }

func (r InflowRepo) Create(_ context.Context, in *entity.Inflow) error {
	return r.s.write(func(st *state) error {
		in.ID = st.newID()
		st.inflows[in.ID] = *in
		return nil
	})
}

func (r InflowRepo) GetByID(_ context.Context, id int64) (*entity.Inflow, error) {
	var out *entity.Inflow
	r.s.read(func(st *state) {
		if in, ok := st.inflows[id]; ok {
			out = st.labelInflow(in)
		}
	})
	return out, nil
}

func (r InflowRepo) Update(_ context.Context, in *entity.Inflow) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.inflows[in.ID]; !ok {
			return domain.ErrNotFound
		}
		st.inflows[in.ID] = *in
		return nil
	})
}

func (r InflowRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Inflow, int, error) {
	var out []*entity.Inflow
	r.s.read(func(st *state) {
		for _, in := range st.inflows {
			if st.matchMovement(in.ProductID, f) {
				out = append(out, st.labelInflow(in))
			}
		}
	})
	sortNewestFirst(out, func(in *entity.Inflow) int64 { return in.ID })
	return page(out, limit, offset), len(out), nil
}

func (r InflowRepo) ListAll(ctx context.Context) ([]*entity.Inflow, error) {
	list, _, err := r.List(ctx, repository.MovementFilter{}, 0, 0)
	return list, err
}

func (st *state) labelInflow(in entity.Inflow) *entity.Inflow {
	in.SupplierName = st.suppliers[in.SupplierID].Name
	in.ProductTitle = st.products[in.ProductID].Title
	return &in
}

// OutflowRepo salidas en memoria.
type OutflowRepo struct{ s *Store }

func (r OutflowRepo) Create(_ context.Context, out *entity.Outflow) error {
	return r.s.write(func(st *state) error {
		out.ID = st.newID()
		st.outflows[out.ID] = *out
		return nil
	})
}

func (r OutflowRepo) GetByID(_ context.Context, id int64) (*entity.Outflow, error) {
	var res *entity.Outflow
	r.s.read(func(st *state) {
		if out, ok := st.outflows[id]; ok {
			out.ProductTitle = st.products[out.ProductID].Title
			res = &out
		}
	})
	return res, nil
}

func (r OutflowRepo) Update(_ context.Context, out *entity.Outflow) error {
	return r.s.write(func(st *state) error {
		if _, ok := st.outflows[out.ID]; !ok {
			return domain.ErrNotFound
		}
		st.outflows[out.ID] = *out
		return nil
	})
}

func (r OutflowRepo) List(_ context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Outflow, int, error) {
	var res []*entity.Outflow
	r.s.read(func(st *state) {
		for _, out := range st.outflows {
			if st.matchMovement(out.ProductID, f) {
				out.ProductTitle = st.products[out.ProductID].Title
				o := out
				res = append(res, &o)
			}
		}
	})
	sortNewestFirst(res, func(o *entity.Outflow) int64 { return o.ID })
	return page(res, limit, offset), len(res), nil
}

func (r OutflowRepo) ListAll(ctx context.Context) ([]*entity.Outflow, error) {
	list, _, err := r.List(ctx, repository.MovementFilter{}, 0, 0)
	return list, err
}
