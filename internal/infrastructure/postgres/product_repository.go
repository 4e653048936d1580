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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productSelect = `
	SELECT p.id, p.title, p.product_model_id, m.name || ' - ' || b.name, p.category_id, c.name,
	       p.description, p.serial_number, p.cost_price, p.sell_price, p.quantity, p.created_at, p.updated_at
	FROM products p
	JOIN product_models m ON m.id = p.product_model_id
	JOIN brands b         ON b.id = m.brand_id
	JOIN categories c     ON c.id = p.category_id`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto con su cantidad inicial.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (title, product_model_id, category_id, description, serial_number,
		                      cost_price, sell_price, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		p.Title, p.ProductModelID, p.CategoryID, p.Description, p.SerialNumber,
		p.CostPrice, p.SellPrice, p.Quantity,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return writeErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID con las etiquetas de modelo y categoría.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza todos los campos editables, incluida la cantidad.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET title = $2, product_model_id = $3, category_id = $4, description = $5,
		       serial_number = $6, cost_price = $7, sell_price = $8, quantity = $9, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.q.QueryRow(ctx, query,
		p.ID, p.Title, p.ProductModelID, p.CategoryID, p.Description,
		p.SerialNumber, p.CostPrice, p.SellPrice, p.Quantity,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return writeErr("update product", err)
	}
	return nil
}

// Delete elimina un producto; falla con ErrInUse si tiene movimientos.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return deleteErr("delete product", err)
	}
	return nil
}

// List filtra por título, número de serie, categoría y modelo; ordena por título.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	const where = `
		WHERE ($1 = '' OR p.title ILIKE $1)
		  AND ($2 = '' OR p.serial_number ILIKE $2)
		  AND ($3 = 0 OR p.category_id = $3)
		  AND ($4 = 0 OR p.product_model_id = $4)`
	args := []any{likePattern(f.Title), likePattern(f.SerialNumber), f.CategoryID, f.ProductModelID}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	rows, err := r.q.Query(ctx, productSelect+where+`
		ORDER BY p.title, p.id
		LIMIT NULLIF($5, 0) OFFSET $6`, append(args, max(limit, 0), offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	list, _, err := r.List(ctx, repository.ProductFilter{}, 0, 0)
	return list, err
}

// AdjustQuantity suma delta en una sola sentencia: la fila queda bloqueada hasta el fin de la tx,
// así dos movimientos concurrentes sobre el mismo producto nunca pierden una actualización.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, productID, delta int64) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx,
		`UPDATE products SET quantity = quantity + $2, updated_at = now() WHERE id = $1 RETURNING quantity`,
		productID, delta,
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: producto %d", domain.ErrNotFound, productID)
		}
		return 0, fmt.Errorf("adjust product quantity: %w", err)
	}
	return qty, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Title, &p.ProductModelID, &p.ProductModelLabel, &p.CategoryID, &p.CategoryName,
		&p.Description, &p.SerialNumber, &p.CostPrice, &p.SellPrice, &p.Quantity, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
