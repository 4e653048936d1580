package postgres

import (
	"context"
	"fmt"

	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// NewRepositories arma todos los repositorios sobre un mismo Querier (pool o tx).
func NewRepositories(q Querier) repository.Repositories {
	var repos repository.Repositories
	repos = repository.Repositories{
		Brands:        NewBrandRepository(q),
		Categories:    NewCategoryRepository(q),
		Suppliers:     NewSupplierRepository(q),
		ProductModels: NewProductModelRepository(q),
		Products:      NewProductRepository(q),
		Inflows:       NewInflowRepository(q),
		Outflows:      NewOutflowRepository(q),
		Lookup:        NewLookupRepository(q, func() repository.Repositories { return repos }),
	}
	return repos
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db TxBeginner
}

// NewTxRunner construye el runner con el pool (o cualquier TxBeginner).
func NewTxRunner(db TxBeginner) *TxRunner {
	return &TxRunner{db: db}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	committed = true
	return nil
}
