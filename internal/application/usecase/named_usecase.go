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

// namedRepository forma común de los repositorios de marcas, categorías y proveedores.
type namedRepository[T any] interface {
	Create(ctx context.Context, e T) error
	GetByID(ctx context.Context, id int64) (T, error)
	Update(ctx context.Context, e T) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.NameFilter, limit, offset int) ([]T, int, error)
	ListAll(ctx context.Context) ([]T, error)
}

// namedCodec traduce entre la entidad concreta y los DTO compartidos.
type namedCodec[T any] struct {
	newEntity  func() T
	apply      func(T, dto.NamedRequest)
	toResponse func(T) dto.NamedResponse
}

// NamedUseCase CRUD de entidades id/nombre/descripción con lista de selección cacheada.
type NamedUseCase[T comparable] struct {
	kind  catalog.EntityType
	repo  namedRepository[T]
	codec namedCodec[T]
	lists listCache
	log   zerolog.Logger
}

type (
	BrandUseCase    = NamedUseCase[*entity.Brand]
	CategoryUseCase = NamedUseCase[*entity.Category]
	SupplierUseCase = NamedUseCase[*entity.Supplier]
)

// NewBrandUseCase construye el caso de uso de marcas.
func NewBrandUseCase(repo repository.BrandRepository, cache ports.Cache, log zerolog.Logger) *BrandUseCase {
	return &BrandUseCase{
		kind: catalog.TypeBrand,
		repo: repo,
		codec: namedCodec[*entity.Brand]{
			newEntity: func() *entity.Brand { return &entity.Brand{} },
			apply:     func(b *entity.Brand, in dto.NamedRequest) { b.Name, b.Description = in.Name, in.Description },
			toResponse: func(b *entity.Brand) dto.NamedResponse {
				return dto.NamedResponse{ID: b.ID, Name: b.Name, Description: b.Description, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
			},
		},
		lists: listCache{cache: cache, log: log},
		log:   log,
	}
}

// NewCategoryUseCase construye el caso de uso de categorías.
func NewCategoryUseCase(repo repository.CategoryRepository, cache ports.Cache, log zerolog.Logger) *CategoryUseCase {
	return &CategoryUseCase{
		kind: catalog.TypeCategory,
		repo: repo,
		codec: namedCodec[*entity.Category]{
			newEntity: func() *entity.Category { return &entity.Category{} },
			apply:     func(c *entity.Category, in dto.NamedRequest) { c.Name, c.Description = in.Name, in.Description },
			toResponse: func(c *entity.Category) dto.NamedResponse {
				return dto.NamedResponse{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
			},
		},
		lists: listCache{cache: cache, log: log},
		log:   log,
	}
}

// NewSupplierUseCase construye el caso de uso de proveedores.
func NewSupplierUseCase(repo repository.SupplierRepository, cache ports.Cache, log zerolog.Logger) *SupplierUseCase {
	return &SupplierUseCase{
		kind: catalog.TypeSupplier,
		repo: repo,
		codec: namedCodec[*entity.Supplier]{
			newEntity: func() *entity.Supplier { return &entity.Supplier{} },
			apply:     func(s *entity.Supplier, in dto.NamedRequest) { s.Name, s.Description = in.Name, in.Description },
			toResponse: func(s *entity.Supplier) dto.NamedResponse {
				return dto.NamedResponse{ID: s.ID, Name: s.Name, Description: s.Description, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
			},
		},
		lists: listCache{cache: cache, log: log},
		log:   log,
	}
}

// Create valida y persiste una nueva entidad.
func (uc *NamedUseCase[T]) Create(ctx context.Context, in dto.NamedRequest) (*dto.NamedResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	e := uc.codec.newEntity()
	uc.codec.apply(e, in)
	if err := uc.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	uc.lists.invalidate(ctx, uc.kind)
	out := uc.codec.toResponse(e)
	return &out, nil
}

// Get obtiene por ID; nil si no existe.
func (uc *NamedUseCase[T]) Get(ctx context.Context, id int64) (*dto.NamedResponse, error) {
	var zero T
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil || e == zero {
		return nil, err
	}
	out := uc.codec.toResponse(e)
	return &out, nil
}

// Update reemplaza nombre y descripción; nil si no existe.
func (uc *NamedUseCase[T]) Update(ctx context.Context, id int64, in dto.NamedRequest) (*dto.NamedResponse, error) {
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	var zero T
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil || e == zero {
		return nil, err
	}
	uc.codec.apply(e, in)
	if err := uc.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	uc.lists.invalidate(ctx, uc.kind)
	out := uc.codec.toResponse(e)
	return &out, nil
}

// Delete elimina por ID. ErrNotFound si no existe; ErrInUse si está referenciada.
func (uc *NamedUseCase[T]) Delete(ctx context.Context, id int64) error {
	var zero T
	e, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e == zero {
		return domain.ErrNotFound
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.lists.invalidate(ctx, uc.kind)
	uc.log.Info().Str("entity", string(uc.kind)).Int64("id", id).Msg("registro eliminado")
	return nil
}

// List lista con filtro por nombre y paginación.
func (uc *NamedUseCase[T]) List(ctx context.Context, f repository.NameFilter, limit, offset int) (*dto.NamedListResponse, error) {
	list, total, err := uc.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.NamedResponse, 0, len(list))
	for _, e := range list {
		items = append(items, uc.codec.toResponse(e))
	}
	return &dto.NamedListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}, nil
}

// Options devuelve todas las entidades como lista de selección (cacheada).
func (uc *NamedUseCase[T]) Options(ctx context.Context) ([]dto.OptionResponse, error) {
	return uc.lists.options(ctx, uc.kind, func() ([]dto.OptionResponse, error) {
		all, err := uc.repo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]dto.OptionResponse, 0, len(all))
		for _, e := range all {
			r := uc.codec.toResponse(e)
			opts = append(opts, dto.OptionResponse{ID: r.ID, Label: r.Name})
		}
		return opts, nil
	})
}
