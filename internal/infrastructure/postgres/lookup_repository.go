package postgres

import (
	"context"
	"fmt"
	"slices"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ repository.LookupRepository = (*LookupRepo)(nil)

// LookupRepo consultas genéricas por tipo. Tabla y columna salen del registro de esquemas,
// nunca de la entrada del usuario, por eso pueden interpolarse en el SQL.
type LookupRepo struct {
	q     Querier
	repos func() repository.Repositories
}

// NewLookupRepository construye el adaptador; repos da acceso a los ListAll tipados.
func NewLookupRepository(q Querier, repos func() repository.Repositories) *LookupRepo {
	return &LookupRepo{q: q, repos: repos}
}

func (r *LookupRepo) ExistsByID(ctx context.Context, t catalog.EntityType, id int64) (bool, error) {
	schema, err := catalog.Lookup(string(t))
	if err != nil {
		return false, err
	}
	var ok bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, schema.Table)
	if err := r.q.QueryRow(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("exists %s: %w", schema.Table, err)
	}
	return ok, nil
}

// FindIDsByField busca por igualdad sin distinguir mayúsculas. Solo acepta claves naturales del esquema.
func (r *LookupRepo) FindIDsByField(ctx context.Context, t catalog.EntityType, field, value string, limit int) ([]int64, error) {
	schema, err := catalog.Lookup(string(t))
	if err != nil {
		return nil, err
	}
	if !slices.Contains(schema.NaturalKeys(), field) {
		return nil, fmt.Errorf("%s no tiene el campo de texto %q", schema.Name, field)
	}
	query := fmt.Sprintf(`SELECT id FROM %s WHERE lower(%s) = lower($1) ORDER BY id LIMIT NULLIF($2, 0)`, schema.Table, field)
	rows, err := r.q.Query(ctx, query, value, max(limit, 0))
	if err != nil {
		return nil, fmt.Errorf("find %s by %s: %w", schema.Table, field, err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *LookupRepo) ListAll(ctx context.Context, t catalog.EntityType) ([]catalog.Exportable, error) {
	repos := r.repos()
	switch t {
	case catalog.TypeBrand:
		return exportables(repos.Brands.ListAll(ctx))
	case catalog.TypeCategory:
		return exportables(repos.Categories.ListAll(ctx))
	case catalog.TypeSupplier:
		return exportables(repos.Suppliers.ListAll(ctx))
	case catalog.TypeProductModel:
		return exportables(repos.ProductModels.ListAll(ctx))
	case catalog.TypeProduct:
		return exportables(repos.Products.ListAll(ctx))
	case catalog.TypeInflow:
		return exportables(repos.Inflows.ListAll(ctx))
	case catalog.TypeOutflow:
		return exportables(repos.Outflows.ListAll(ctx))
	default:
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownEntity, t)
	}
}

func exportables[T catalog.Exportable](list []T, err error) ([]catalog.Exportable, error) {
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Exportable, len(list))
	for i, v := range list {
		out[i] = v
	}
	return out, nil
}
