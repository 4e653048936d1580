package usecase_test

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/usecase"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/internal/infrastructure/cache"
	"github.com/cllmenate/inventory-management/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newCache(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisStore(client), mr
}

// ──────────────────────────────────────────────────────────────────────────────
// Marcas (NamedUseCase)
// ──────────────────────────────────────────────────────────────────────────────

func TestBrand_OpcionesCacheadasEInvalidadas(t *testing.T) {
	store := memory.NewStore()
	c, mr := newCache(t)
	uc := usecase.NewBrandUseCase(store.Repositories().Brands, c, zerolog.Nop())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.NamedRequest{Name: "Nike"})
	require.NoError(t, err)

	opts, err := uc.Options(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 1)
	assert.True(t, mr.Exists("list:brand:options"))

	_, err = uc.Create(ctx, dto.NamedRequest{Name: "Adidas"})
	require.NoError(t, err)
	assert.False(t, mr.Exists("list:brand:options"), "crear invalida la lista")

	opts, err = uc.Options(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "Adidas", opts[0].Label, "ordenado por nombre")
}

func TestBrand_NombreDemasiadoLargo(t *testing.T) {
	uc := usecase.NewBrandUseCase(memory.NewStore().Repositories().Brands, nil, zerolog.Nop())
	long := make([]byte, 101)
	for i := range long {
		long[i] = 'a'
	}
	_, err := uc.Create(context.Background(), dto.NamedRequest{Name: string(long)})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestBrand_BorrarReferenciadaDevuelveEnUso(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	brands := usecase.NewBrandUseCase(repos.Brands, nil, zerolog.Nop())
	models := usecase.NewProductModelUseCase(repos.ProductModels, nil, zerolog.Nop())
	ctx := context.Background()

	b, err := brands.Create(ctx, dto.NamedRequest{Name: "Nike"})
	require.NoError(t, err)
	m, err := models.Create(ctx, dto.ProductModelRequest{Name: "Air", BrandID: b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Air - Nike", m.Display)

	assert.True(t, errors.Is(brands.Delete(ctx, b.ID), domain.ErrInUse))
	assert.True(t, errors.Is(brands.Delete(ctx, 9999), domain.ErrNotFound))
}

// ──────────────────────────────────────────────────────────────────────────────
// Productos
// ──────────────────────────────────────────────────────────────────────────────

func TestProduct_CrearFiltrarYEditarCantidad(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repositories()
	ctx := context.Background()
	c, _ := newCache(t)

	b, err := usecase.NewBrandUseCase(repos.Brands, c, zerolog.Nop()).Create(ctx, dto.NamedRequest{Name: "Nike"})
	require.NoError(t, err)
	m, err := usecase.NewProductModelUseCase(repos.ProductModels, c, zerolog.Nop()).Create(ctx, dto.ProductModelRequest{Name: "Air", BrandID: b.ID})
	require.NoError(t, err)
	cat, err := usecase.NewCategoryUseCase(repos.Categories, c, zerolog.Nop()).Create(ctx, dto.NamedRequest{Name: "Calçados"})
	require.NoError(t, err)

	uc := usecase.NewProductUseCase(repos.Products, c, zerolog.Nop())
	p, err := uc.Create(ctx, dto.CreateProductRequest{
		Title: "Tênis Air", ProductModelID: m.ID, CategoryID: cat.ID, SerialNumber: "SN-001",
		CostPrice: decimal.RequireFromString("100.00"), SellPrice: decimal.RequireFromString("150.00"), Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Air - Nike", p.ProductModel)
	assert.Equal(t, "Calçados", p.Category)

	list, err := uc.List(ctx, repository.ProductFilter{SerialNumber: "sn-0"}, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)

	qty := int64(9)
	updated, err := uc.Update(ctx, p.ID, dto.UpdateProductRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(9), updated.Quantity, "la edición directa se permite")
}

func TestProduct_PrecioNegativoRechazado(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Repositories().Products, nil, zerolog.Nop())
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Title: "X", ProductModelID: 1, CategoryID: 1, CostPrice: decimal.NewFromInt(-1), SellPrice: decimal.NewFromInt(1),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
