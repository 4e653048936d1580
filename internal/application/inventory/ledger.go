package inventory

import (
	"context"
	"fmt"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/pkg/validate"
)

// RecordInflow persiste una entrada y suma su cantidad al producto.
// Debe llamarse con repositorios de una transacción abierta (TxRunner.Run);
// la importación masiva la reutiliza para disparar el mismo efecto por fila.
func RecordInflow(ctx context.Context, repos repository.Repositories, in *entity.Inflow) error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	supplier, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("%w: proveedor %d", domain.ErrNotFound, in.SupplierID)
	}
	if err := repos.Inflows.Create(ctx, in); err != nil {
		return err
	}
	// Incremento atómico en la fila del producto; concurrente-seguro sin leer antes.
	if _, err := repos.Products.AdjustQuantity(ctx, in.ProductID, in.Delta()); err != nil {
		return err
	}
	return nil
}

// RecordOutflow persiste una salida y resta su cantidad al producto.
// El stock puede quedar negativo: no hay validación de disponibilidad.
func RecordOutflow(ctx context.Context, repos repository.Repositories, out *entity.Outflow) error {
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := repos.Outflows.Create(ctx, out); err != nil {
		return err
	}
	if _, err := repos.Products.AdjustQuantity(ctx, out.ProductID, out.Delta()); err != nil {
		return err
	}
	return nil
}
