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

var _ repository.ProductModelRepository = (*ProductModelRepo)(nil)

const productModelColumns = `m.id, m.name, m.brand_id, b.name, m.description, m.created_at, m.updated_at`

// ProductModelRepo modelos de producto; las lecturas traen el nombre de la marca.
type ProductModelRepo struct {
	q Querier
}

// NewProductModelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductModelRepository(q Querier) *ProductModelRepo {
	return &ProductModelRepo{q: q}
}

func (r *ProductModelRepo) Create(ctx context.Context, m *entity.ProductModel) error {
	query := `
		INSERT INTO product_models (name, brand_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query, m.Name, m.BrandID, m.Description).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return writeErr("insert product model", err)
	}
	return nil
}

func (r *ProductModelRepo) GetByID(ctx context.Context, id int64) (*entity.ProductModel, error) {
	query := `SELECT ` + productModelColumns + `
		FROM product_models m JOIN brands b ON b.id = m.brand_id
		WHERE m.id = $1`
	m, err := scanProductModel(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product model: %w", err)
	}
	return m, nil
}

func (r *ProductModelRepo) Update(ctx context.Context, m *entity.ProductModel) error {
	query := `
		UPDATE product_models SET name = $2, brand_id = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query, m.ID, m.Name, m.BrandID, m.Description).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return writeErr("update product model", err)
	}
	return nil
}

func (r *ProductModelRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM product_models WHERE id = $1`, id); err != nil {
		return deleteErr("delete product model", err)
	}
	return nil
}

func (r *ProductModelRepo) List(ctx context.Context, f repository.ProductModelFilter, limit, offset int) ([]*entity.ProductModel, int, error) {
	const where = `WHERE ($1 = '' OR m.name ILIKE $1) AND ($2 = 0 OR m.brand_id = $2)`
	pattern := likePattern(f.Name)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM product_models m `+where, pattern, f.BrandID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count product models: %w", err)
	}
	query := `SELECT ` + productModelColumns + `
		FROM product_models m JOIN brands b ON b.id = m.brand_id
		` + where + `
		ORDER BY m.name, m.id
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, pattern, f.BrandID, max(limit, 0), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list product models: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductModel
	for rows.Next() {
		m, err := scanProductModel(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product model: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

func (r *ProductModelRepo) ListAll(ctx context.Context) ([]*entity.ProductModel, error) {
	list, _, err := r.List(ctx, repository.ProductModelFilter{}, 0, 0)
	return list, err
}

func scanProductModel(row pgx.Row) (*entity.ProductModel, error) {
	var m entity.ProductModel
	err := row.Scan(&m.ID, &m.Name, &m.BrandID, &m.BrandName, &m.Description, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
