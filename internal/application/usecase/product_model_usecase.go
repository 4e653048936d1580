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

// ProductModelUseCase CRUD de modelos de producto.
type ProductModelUseCase struct {
	repo  repository.ProductModelRepository
	lists listCache
	log   zerolog.Logger
}

// NewProductModelUseCase construye el caso de uso.
func NewProductModelUseCase(repo repository.ProductModelRepository, cache ports.Cache, log zerolog.Logger) *ProductModelUseCase {
	return &ProductModelUseCase{repo: repo, lists: listCache{cache: cache, log: log}, log: log}
}

// Create persiste un modelo; ErrNotFound si la marca no existe.
func (uc *ProductModelUseCase) Create(ctx context.Context, in dto.ProductModelRequest) (*dto.ProductModelResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	m := &entity.ProductModel{Name: in.Name, BrandID: in.BrandID, Description: in.Description}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	uc.lists.invalidate(ctx, catalog.TypeProductModel)
	return uc.Get(ctx, m.ID)
}

// Get obtiene un modelo por ID; nil si no existe.
func (uc *ProductModelUseCase) Get(ctx context.Context, id int64) (*dto.ProductModelResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return toProductModelResponse(m), nil
}

// Update reemplaza nombre, marca y descripción; nil si no existe.
func (uc *ProductModelUseCase) Update(ctx context.Context, id int64, in dto.ProductModelRequest) (*dto.ProductModelResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	m.Name, m.BrandID, m.Description = in.Name, in.BrandID, in.Description
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	uc.lists.invalidate(ctx, catalog.TypeProductModel)
	// los productos muestran "modelo - marca"
	uc.lists.invalidate(ctx, catalog.TypeProduct)
	return uc.Get(ctx, id)
}

// Delete elimina un modelo; ErrInUse si tiene productos.
func (uc *ProductModelUseCase) Delete(ctx context.Context, id int64) error {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.lists.invalidate(ctx, catalog.TypeProductModel)
	return nil
}

// List lista modelos filtrando por nombre y marca.
func (uc *ProductModelUseCase) List(ctx context.Context, f repository.ProductModelFilter, limit, offset int) (*dto.ProductModelListResponse, error) {
	list, total, err := uc.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductModelResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toProductModelResponse(m))
	}
	return &dto.ProductModelListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Options lista de selección "modelo - marca" (cacheada).
func (uc *ProductModelUseCase) Options(ctx context.Context) ([]dto.OptionResponse, error) {
	return uc.lists.options(ctx, catalog.TypeProductModel, func() ([]dto.OptionResponse, error) {
		all, err := uc.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]dto.OptionResponse, 0, len(all))
		for _, m := range all {
			opts = append(opts, dto.OptionResponse{ID: m.ID, Label: m.String()})
		}
		return opts, nil
	})
}

func toProductModelResponse(m *entity.ProductModel) *dto.ProductModelResponse {
	return &dto.ProductModelResponse{
		ID:          m.ID,
		Name:        m.Name,
		BrandID:     m.BrandID,
		BrandName:   m.BrandName,
		Description: m.Description,
		Display:     m.String(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
