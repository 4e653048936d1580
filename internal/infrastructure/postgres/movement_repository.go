package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var (
	_ repository.InflowRepository  = (*InflowRepo)(nil)
	_ repository.OutflowRepository = (*OutflowRepo)(nil)
)

// movementWhere filtros compartidos; alias p = products, m = product_models.
const movementWhere = `
	WHERE ($1 = '' OR p.title ILIKE $1)
	  AND ($2 = '' OR p.serial_number ILIKE $2)
	  AND ($3 = 0 OR p.category_id = $3)
	  AND ($4 = 0 OR m.brand_id = $4)`

func movementArgs(f repository.MovementFilter) []any {
	return []any{likePattern(f.Product), likePattern(f.SerialNumber), f.CategoryID, f.BrandID}
}

// InflowRepo entradas de stock. Nunca toca products.quantity: eso lo hace el libro de movimientos.
type InflowRepo struct {
	q Querier
}

// NewInflowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInflowRepository(q Querier) *InflowRepo {
	return &InflowRepo{q: q}
}

const inflowSelect = `
	SELECT i.id, i.supplier_id, s.name, i.product_id, p.title, i.quantity, i.description, i.created_at, i.updated_at
	FROM inflows i
	JOIN suppliers s      ON s.id = i.supplier_id
	JOIN products p       ON p.id = i.product_id
	JOIN product_models m ON m.id = p.product_model_id`

func (r *InflowRepo) Create(ctx context.Context, in *entity.Inflow) error {
	query := `
		INSERT INTO inflows (supplier_id, product_id, quantity, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, in.SupplierID, in.ProductID, in.Quantity, in.Description).
		Scan(&in.ID, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return writeErr("insert inflow", err)
	}
	return nil
}

func (r *InflowRepo) GetByID(ctx context.Context, id int64) (*entity.Inflow, error) {
	in, err := scanInflow(r.q.QueryRow(ctx, inflowSelect+` WHERE i.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inflow: %w", err)
	}
	return in, nil
}

func (r *InflowRepo) Update(ctx context.Context, in *entity.Inflow) error {
	query := `
		UPDATE inflows SET supplier_id = $2, quantity = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, in.ID, in.SupplierID, in.Quantity, in.Description).Scan(&in.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return writeErr("update inflow", err)
	}
	return nil
}

// List devuelve las entradas más recientes primero.
func (r *InflowRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Inflow, int, error) {
	args := movementArgs(f)
	var total int
	countQuery := `SELECT COUNT(*) FROM inflows i
		JOIN products p ON p.id = i.product_id
		JOIN product_models m ON m.id = p.product_model_id` + movementWhere
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count inflows: %w", err)
	}
	rows, err := r.q.Query(ctx, inflowSelect+movementWhere+`
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT NULLIF($5, 0) OFFSET $6`, append(args, max(limit, 0), offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list inflows: %w", err)
	}
	defer rows.Close()
	var list []*entity.Inflow
	for rows.Next() {
		in, err := scanInflow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan inflow: %w", err)
		}
		list = append(list, in)
	}
	return list, total, rows.Err()
}

func (r *InflowRepo) ListAll(ctx context.Context) ([]*entity.Inflow, error) {
	list, _, err := r.List(ctx, repository.MovementFilter{}, 0, 0)
	return list, err
}

func scanInflow(row pgx.Row) (*entity.Inflow, error) {
	var in entity.Inflow
	err := row.Scan(&in.ID, &in.SupplierID, &in.SupplierName, &in.ProductID, &in.ProductTitle,
		&in.Quantity, &in.Description, &in.CreatedAt, &in.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// OutflowRepo salidas de stock.
type OutflowRepo struct {
	q Querier
}

// NewOutflowRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutflowRepository(q Querier) *OutflowRepo {
	return &OutflowRepo{q: q}
}

const outflowSelect = `
	SELECT o.id, o.product_id, p.title, o.quantity, o.description, o.created_at, o.updated_at
	FROM outflows o
	JOIN products p       ON p.id = o.product_id
	JOIN product_models m ON m.id = p.product_model_id`

func (r *OutflowRepo) Create(ctx context.Context, out *entity.Outflow) error {
	query := `
		INSERT INTO outflows (product_id, quantity, description, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, out.ProductID, out.Quantity, out.Description).
		Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return writeErr("insert outflow", err)
	}
	return nil
}

func (r *OutflowRepo) GetByID(ctx context.Context, id int64) (*entity.Outflow, error) {
	out, err := scanOutflow(r.q.QueryRow(ctx, outflowSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outflow: %w", err)
	}
	return out, nil
}

func (r *OutflowRepo) Update(ctx context.Context, out *entity.Outflow) error {
	query := `
		UPDATE outflows SET quantity = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, out.ID, out.Quantity, out.Description).Scan(&out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return writeErr("update outflow", err)
	}
	return nil
}

// List devuelve las salidas más recientes primero.
func (r *OutflowRepo) List(ctx context.Context, f repository.MovementFilter, limit, offset int) ([]*entity.Outflow, int, error) {
	args := movementArgs(f)
	var total int
	countQuery := `SELECT COUNT(*) FROM outflows o
		JOIN products p ON p.id = o.product_id
		JOIN product_models m ON m.id = p.product_model_id` + movementWhere
	if err := r.q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count outflows: %w", err)
	}
	rows, err := r.q.Query(ctx, outflowSelect+movementWhere+`
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT NULLIF($5, 0) OFFSET $6`, append(args, max(limit, 0), offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list outflows: %w", err)
	}
	defer rows.Close()
	var list []*entity.Outflow
	for rows.Next() {
		out, err := scanOutflow(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan outflow: %w", err)
		}
		list = append(list, out)
	}
	return list, total, rows.Err()
}

func (r *OutflowRepo) ListAll(ctx context.Context) ([]*entity.Outflow, error) {
	list, _, err := r.List(ctx, repository.MovementFilter{}, 0, 0)
	return list, err
}

func scanOutflow(row pgx.Row) (*entity.Outflow, error) {
	var out entity.Outflow
	err := row.Scan(&out.ID, &out.ProductID, &out.ProductTitle, &out.Quantity, &out.Description, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
