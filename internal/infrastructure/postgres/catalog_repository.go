package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var (
	_ repository.BrandRepository    = (*BrandRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.SupplierRepository = (*SupplierRepo)(nil)
)

// namedRow columnas comunes de marcas, categorías y proveedores.
type namedRow struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// namedTable CRUD compartido por las tablas id/name/description.
type namedTable struct {
	q     Querier
	table string
}

func (t namedTable) create(ctx context.Context, row *namedRow) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, created_at, updated_at)
		VALUES ($1, $2, now(), now())
		RETURNING id, created_at, updated_at`, t.table)
	err := t.q.QueryRow(ctx, query, row.Name, row.Description).Scan(&row.ID, &row.CreatedAt, &row.UpdatedAt)
	if err != nil {
		return writeErr("insert "+t.table, err)
	}
	return nil
}

func (t namedTable) get(ctx context.Context, id int64) (*namedRow, error) {
	query := fmt.Sprintf(`SELECT id, name, description, created_at, updated_at FROM %s WHERE id = $1`, t.table)
	var r namedRow
	err := t.q.QueryRow(ctx, query, id).Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", t.table, err)
	}
	return &r, nil
}

func (t namedTable) update(ctx context.Context, row *namedRow) error {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $2, description = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`, t.table)
	err := t.q.QueryRow(ctx, query, row.ID, row.Name, row.Description).Scan(&row.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return writeErr("update "+t.table, err)
	}
	return nil
}

func (t namedTable) delete(ctx context.Context, id int64) error {
	_, err := t.q.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.table), id)
	if err != nil {
		return deleteErr("delete "+t.table, err)
	}
	return nil
}

// list filtra por nombre (contiene, sin distinguir mayúsculas) y ordena por nombre.
// limit <= 0 devuelve todas las filas.
func (t namedTable) list(ctx context.Context, name string, limit, offset int) ([]namedRow, int, error) {
	pattern := likePattern(name)
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE ($1 = '' OR name ILIKE $1)`, t.table)
	if err := t.q.QueryRow(ctx, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", t.table, err)
	}
	query := fmt.Sprintf(`
		SELECT id, name, description, created_at, updated_at FROM %s
		WHERE ($1 = '' OR name ILIKE $1)
		ORDER BY name, id
		LIMIT NULLIF($2, 0) OFFSET $3`, t.table)
	rows, err := t.q.Query(ctx, query, pattern, max(limit, 0), offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", t.table, err)
	}
	defer rows.Close()
	var list []namedRow
	for rows.Next() {
		var r namedRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", t.table, err)
		}
		list = append(list, r)
	}
	return list, total, rows.Err()
}

// BrandRepo implementación del puerto BrandRepository sobre PostgreSQL (usable con pool o tx).
type BrandRepo struct{ t namedTable }

// NewBrandRepository construye el adaptador de marcas.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{t: namedTable{q: q, table: "brands"}}
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	row := namedRow{Name: b.Name, Description: b.Description}
	if err := r.t.create(ctx, &row); err != nil {
		return err
	}
	b.ID, b.CreatedAt, b.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id int64) (*entity.Brand, error) {
	row, err := r.t.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return toBrand(*row), nil
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	row := namedRow{ID: b.ID, Name: b.Name, Description: b.Description}
	if err := r.t.update(ctx, &row); err != nil {
		return err
	}
	b.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *BrandRepo) Delete(ctx context.Context, id int64) error { return r.t.delete(ctx, id) }

func (r *BrandRepo) List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]*entity.Brand, int, error) {
	rows, total, err := r.t.list(ctx, f.Name, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*entity.Brand, len(rows))
	for i, row := range rows {
		list[i] = toBrand(row)
	}
	return list, total, nil
}

func (r *BrandRepo) ListAll(ctx context.Context) ([]*entity.Brand, error) {
	list, _, err := r.List(ctx, repository.NameFilter{}, 0, 0)
	return list, err
}

func toBrand(r namedRow) *entity.Brand {
	return &entity.Brand{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct{ t namedTable }

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{t: namedTable{q: q, table: "categories"}}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	row := namedRow{Name: c.Name, Description: c.Description}
	if err := r.t.create(ctx, &row); err != nil {
		return err
	}
	c.ID, c.CreatedAt, c.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	row, err := r.t.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return toCategory(*row), nil
}

func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	row := namedRow{ID: c.ID, Name: c.Name, Description: c.Description}
	if err := r.t.update(ctx, &row); err != nil {
		return err
	}
	c.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error { return r.t.delete(ctx, id) }

func (r *CategoryRepo) List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]*entity.Category, int, error) {
	rows, total, err := r.t.list(ctx, f.Name, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*entity.Category, len(rows))
	for i, row := range rows {
		list[i] = toCategory(row)
	}
	return list, total, nil
}

func (r *CategoryRepo) ListAll(ctx context.Context) ([]*entity.Category, error) {
	list, _, err := r.List(ctx, repository.NameFilter{}, 0, 0)
	return list, err
}

func toCategory(r namedRow) *entity.Category {
	return &entity.Category{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// SupplierRepo implementación del puerto SupplierRepository sobre PostgreSQL.
type SupplierRepo struct{ t namedTable }

// NewSupplierRepository construye el adaptador de proveedores.
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{t: namedTable{q: q, table: "suppliers"}}
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	row := namedRow{Name: s.Name, Description: s.Description}
	if err := r.t.create(ctx, &row); err != nil {
		return err
	}
	s.ID, s.CreatedAt, s.UpdatedAt = row.ID, row.CreatedAt, row.UpdatedAt
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id int64) (*entity.Supplier, error) {
	row, err := r.t.get(ctx, id)
	if err != nil || row == nil {
		return nil, err
	}
	return toSupplier(*row), nil
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	row := namedRow{ID: s.ID, Name: s.Name, Description: s.Description}
	if err := r.t.update(ctx, &row); err != nil {
		return err
	}
	s.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id int64) error { return r.t.delete(ctx, id) }

func (r *SupplierRepo) List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]*entity.Supplier, int, error) {
	rows, total, err := r.t.list(ctx, f.Name, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	list := make([]*entity.Supplier, len(rows))
	for i, row := range rows {
		list[i] = toSupplier(row)
	}
	return list, total, nil
}

func (r *SupplierRepo) ListAll(ctx context.Context) ([]*entity.Supplier, error) {
	list, _, err := r.List(ctx, repository.NameFilter{}, 0, 0)
	return list, err
}

func toSupplier(r namedRow) *entity.Supplier {
	return &entity.Supplier{ID: r.ID, Name: r.Name, Description: r.Description, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}
