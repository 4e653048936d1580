package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/pkg/validate"
)

// ProductUseCase casos de uso CRUD para productos.
// La cantidad se mueve normalmente vía entradas y salidas; la edición directa se
// permite pero queda registrada como advertencia.
type ProductUseCase struct {
	repo  repository.ProductRepository
	lists listCache
	log   zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, cache ports.Cache, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, lists: listCache{cache: cache, log: log}, log: log}
}

// Create crea un nuevo producto con su cantidad inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	product := &entity.Product{
		Title:          in.Title,
		ProductModelID: in.ProductModelID,
		CategoryID:     in.CategoryID,
		Description:    in.Description,
		SerialNumber:   in.SerialNumber,
		CostPrice:      in.CostPrice,
		SellPrice:      in.SellPrice,
		Quantity:       in.Quantity,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.lists.invalidate(ctx, catalog.TypeProduct)
	return uc.GetByID(ctx, product.ID)
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos presentes en la petición.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Title != nil {
		product.Title = *in.Title
	}
	if in.ProductModelID != nil {
		product.ProductModelID = *in.ProductModelID
	}
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.SerialNumber != nil {
		product.SerialNumber = *in.SerialNumber
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SellPrice != nil {
		product.SellPrice = *in.SellPrice
	}
	if in.Quantity != nil && *in.Quantity != product.Quantity {
		uc.log.Warn().
			Int64("product_id", id).
			Int64("from", product.Quantity).
			Int64("to", *in.Quantity).
			Msg("cantidad editada fuera del libro de movimientos")
		product.Quantity = *in.Quantity
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	uc.lists.invalidate(ctx, catalog.TypeProduct)
	return uc.GetByID(ctx, id)
}

// List lista productos con filtros y paginación.
func (uc *ProductUseCase) List(ctx context.Context, f repository.ProductFilter, limit, offset int) (*dto.ProductListResponse, error) {
	list, total, err := uc.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Delete elimina un producto por ID; ErrInUse si tiene movimientos.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.lists.invalidate(ctx, catalog.TypeProduct)
	return nil
}

// Options lista de selección de productos por título (cacheada).
func (uc *ProductUseCase) Options(ctx context.Context) ([]dto.OptionResponse, error) {
	return uc.lists.options(ctx, catalog.TypeProduct, func() ([]dto.OptionResponse, error) {
		all, err := uc.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]dto.OptionResponse, 0, len(all))
		for _, p := range all {
			opts = append(opts, dto.OptionResponse{ID: p.ID, Label: p.Title})
		}
		return opts, nil
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		Title:          p.Title,
		ProductModelID: p.ProductModelID,
		ProductModel:   p.ProductModelLabel,
		CategoryID:     p.CategoryID,
		Category:       p.CategoryName,
		Description:    p.Description,
		SerialNumber:   p.SerialNumber,
		CostPrice:      p.CostPrice,
		SellPrice:      p.SellPrice,
		Quantity:       p.Quantity,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
