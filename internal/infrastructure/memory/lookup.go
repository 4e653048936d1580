package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ repository.LookupRepository = LookupRepo{}

// LookupRepo consultas genéricas por tipo de entidad.
type LookupRepo struct{ s *Store }

func (r LookupRepo) ExistsByID(_ context.Context, t catalog.EntityType, id int64) (bool, error) {
	var ok bool
	var err error
	r.s.read(func(st *state) {
		switch t {
		case catalog.TypeBrand:
			_, ok = st.brands[id]
		case catalog.TypeCategory:
			_, ok = st.categories[id]
		case catalog.TypeSupplier:
			_, ok = st.suppliers[id]
		case catalog.TypeProductModel:
			_, ok = st.models[id]
		case catalog.TypeProduct:
			_, ok = st.products[id]
		case catalog.TypeInflow:
			_, ok = st.inflows[id]
		case catalog.TypeOutflow:
			_, ok = st.outflows[id]
		default:
			err = fmt.Errorf("%w: %s", catalog.ErrUnknownEntity, t)
		}
	})
	return ok, err
}

// FindIDsByField solo admite los campos de texto que sirven de clave natural.
func (r LookupRepo) FindIDsByField(_ context.Context, t catalog.EntityType, field, value string, limit int) ([]int64, error) {
	var ids []int64
	match := func(id int64, got string) {
		if strings.EqualFold(got, value) {
			ids = append(ids, id)
		}
	}
	r.s.read(func(st *state) {
		switch {
		case field == "name" && t == catalog.TypeBrand:
			for id, b := range st.brands {
				match(id, b.Name)
			}
		case field == "name" && t == catalog.TypeCategory:
			for id, c := range st.categories {
				match(id, c.Name)
			}
		case field == "name" && t == catalog.TypeSupplier:
			for id, sp := range st.suppliers {
				match(id, sp.Name)
			}
		case field == "name" && t == catalog.TypeProductModel:
			for id, m := range st.models {
				match(id, m.Name)
			}
		case field == "title" && t == catalog.TypeProduct:
			for id, p := range st.products {
				match(id, p.Title)
			}
		}
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r LookupRepo) ListAll(ctx context.Context, t catalog.EntityType) ([]catalog.Exportable, error) {
	repos := r.s.Repositories()
	var out []catalog.Exportable
	switch t {
	case catalog.TypeBrand:
		list, _ := repos.Brands.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	case catalog.TypeCategory:
		list, _ := repos.Categories.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	case catalog.TypeSupplier:
		list, _ := repos.Suppliers.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	case catalog.TypeProductModel:
		list, _ := repos.ProductModels.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	case catalog.TypeProduct:
		list, _ := repos.Products.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	case catalog.TypeInflow:
		list, _ := repos.Inflows.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	case catalog.TypeOutflow:
		list, _ := repos.Outflows.ListAll(ctx)
		for _, v := range list {
			out = append(out, v)
		}
	default:
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownEntity, t)
	}
	return out, nil
}
