package inventory

import (
	"context"

	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el movimiento y el ajuste de cantidad se confirmen juntos o no se confirmen.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
