package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/pkg/validate"
)

// MovementUseCase registra entradas y salidas de stock de forma transaccional.
// La cantidad del producto se ajusta exactamente una vez, al crear el movimiento;
// las ediciones posteriores del registro no la vuelven a tocar.
type MovementUseCase struct {
	txRunner TxRunner
	inflows  repository.InflowRepository
	outflows repository.OutflowRepository
	log      zerolog.Logger
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	inflows repository.InflowRepository,
	outflows repository.OutflowRepository,
	log zerolog.Logger,
) *MovementUseCase {
	return &MovementUseCase{txRunner: txRunner, inflows: inflows, outflows: outflows, log: log}
}

// CreateInflow persiste la entrada y suma la cantidad al producto en una misma transacción.
func (uc *MovementUseCase) CreateInflow(ctx context.Context, in dto.CreateInflowRequest) (*dto.InflowResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now()
	inflow := &entity.Inflow{
		SupplierID:  in.SupplierID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		return RecordInflow(ctx, repos, inflow)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("inflow_id", inflow.ID).
		Int64("product_id", inflow.ProductID).
		Int64("delta", inflow.Delta()).
		Msg("entrada registrada")
	return uc.GetInflow(ctx, inflow.ID)
}

// CreateOutflow persiste la salida y resta la cantidad al producto en una misma transacción.
func (uc *MovementUseCase) CreateOutflow(ctx context.Context, in dto.CreateOutflowRequest) (*dto.OutflowResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	now := time.Now()
	outflow := &entity.Outflow{
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(repos repository.Repositories) error {
		return RecordOutflow(ctx, repos, outflow)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Int64("outflow_id", outflow.ID).
		Int64("product_id", outflow.ProductID).
		Int64("delta", outflow.Delta()).
		Msg("salida registrada")
	return uc.GetOutflow(ctx, outflow.ID)
}

// GetInflow obtiene una entrada por ID; nil si no existe.
func (uc *MovementUseCase) GetInflow(ctx context.Context, id int64) (*dto.InflowResponse, error) {
	in, err := uc.inflows.GetByID(ctx, id)
	if err != nil || in == nil {
		return nil, err
	}
	return toInflowResponse(in), nil
}

// GetOutflow obtiene una salida por ID; nil si no existe.
func (uc *MovementUseCase) GetOutflow(ctx context.Context, id int64) (*dto.OutflowResponse, error) {
	out, err := uc.outflows.GetByID(ctx, id)
	if err != nil || out == nil {
		return nil, err
	}
	return toOutflowResponse(out), nil
}

// UpdateInflow edita proveedor, cantidad o descripción del registro.
// No reaplica el ajuste: el stock del producto queda como estaba.
func (uc *MovementUseCase) UpdateInflow(ctx context.Context, id int64, in dto.UpdateInflowRequest) (*dto.InflowResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	inflow, err := uc.inflows.GetByID(ctx, id)
	if err != nil || inflow == nil {
		return nil, err
	}
	if in.SupplierID != nil {
		inflow.SupplierID = *in.SupplierID
	}
	if in.Quantity != nil {
		if *in.Quantity != inflow.Quantity {
			uc.log.Warn().Int64("inflow_id", id).Msg("cantidad editada sin ajuste de stock")
		}
		inflow.Quantity = *in.Quantity
	}
	if in.Description != nil {
		inflow.Description = *in.Description
	}
	inflow.UpdatedAt = time.Now()
	if err := uc.inflows.Update(ctx, inflow); err != nil {
		return nil, err
	}
	return uc.GetInflow(ctx, id)
}

// UpdateOutflow edita cantidad o descripción del registro sin reaplicar el ajuste.
func (uc *MovementUseCase) UpdateOutflow(ctx context.Context, id int64, in dto.UpdateOutflowRequest) (*dto.OutflowResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	outflow, err := uc.outflows.GetByID(ctx, id)
	if err != nil || outflow == nil {
		return nil, err
	}
	if in.Quantity != nil {
		if *in.Quantity != outflow.Quantity {
			uc.log.Warn().Int64("outflow_id", id).Msg("cantidad editada sin ajuste de stock")
		}
		outflow.Quantity = *in.Quantity
	}
	if in.Description != nil {
		outflow.Description = *in.Description
	}
	outflow.UpdatedAt = time.Now()
	if err := uc.outflows.Update(ctx, outflow); err != nil {
		return nil, err
	}
	return uc.GetOutflow(ctx, id)
}

// ListInflows lista entradas con filtros y paginación.
func (uc *MovementUseCase) ListInflows(ctx context.Context, f repository.MovementFilter, limit, offset int) (*dto.InflowListResponse, error) {
	list, total, err := uc.inflows.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InflowResponse, 0, len(list))
	for _, in := range list {
		items = append(items, *toInflowResponse(in))
	}
	return &dto.InflowListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// ListOutflows lista salidas con filtros y paginación.
func (uc *MovementUseCase) ListOutflows(ctx context.Context, f repository.MovementFilter, limit, offset int) (*dto.OutflowListResponse, error) {
	list, total, err := uc.outflows.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OutflowResponse, 0, len(list))
	for _, out := range list {
		items = append(items, *toOutflowResponse(out))
	}
	return &dto.OutflowListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

func toInflowResponse(in *entity.Inflow) *dto.InflowResponse {
	return &dto.InflowResponse{
		ID:          in.ID,
		SupplierID:  in.SupplierID,
		Supplier:    in.SupplierName,
		ProductID:   in.ProductID,
		Product:     in.ProductTitle,
		Quantity:    in.Quantity,
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
	}
}

func toOutflowResponse(out *entity.Outflow) *dto.OutflowResponse {
	return &dto.OutflowResponse{
		ID:          out.ID,
		ProductID:   out.ProductID,
		Product:     out.ProductTitle,
		Quantity:    out.Quantity,
		Description: out.Description,
		CreatedAt:   out.CreatedAt,
		UpdatedAt:   out.UpdatedAt,
	}
}
