package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store      *memory.Store
	repos      repository.Repositories
	uc         *inventory.MovementUseCase
	productID  int64
	supplierID int64
}

func newFixture(t *testing.T, initialQty int64) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	brand := &entity.Brand{Name: "Nike"}
	require.NoError(t, repos.Brands.Create(ctx, brand))
	model := &entity.ProductModel{Name: "Air", BrandID: brand.ID}
	require.NoError(t, repos.ProductModels.Create(ctx, model))
	category := &entity.Category{Name: "Calçados"}
	require.NoError(t, repos.Categories.Create(ctx, category))
	supplier := &entity.Supplier{Name: "XYZ Corp"}
	require.NoError(t, repos.Suppliers.Create(ctx, supplier))
	product := &entity.Product{
		Title:          "Tênis Air",
		ProductModelID: model.ID,
		CategoryID:     category.ID,
		CostPrice:      decimal.NewFromInt(100),
		SellPrice:      decimal.NewFromInt(200),
		Quantity:       initialQty,
	}
	require.NoError(t, repos.Products.Create(ctx, product))

	uc := inventory.NewMovementUseCase(store, repos.Inflows, repos.Outflows, zerolog.Nop())
	return &fixture{store: store, repos: repos, uc: uc, productID: product.ID, supplierID: supplier.ID}
}

func (f *fixture) quantity(t *testing.T) int64 {
	t.Helper()
	p, err := f.repos.Products.GetByID(context.Background(), f.productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Quantity
}

func (f *fixture) inflow(t *testing.T, qty int64) *dto.InflowResponse {
	t.Helper()
	out, err := f.uc.CreateInflow(context.Background(), dto.CreateInflowRequest{
		SupplierID: f.supplierID, ProductID: f.productID, Quantity: qty,
	})
	require.NoError(t, err)
	return out
}

func (f *fixture) outflow(t *testing.T, qty int64) *dto.OutflowResponse {
	t.Helper()
	out, err := f.uc.CreateOutflow(context.Background(), dto.CreateOutflowRequest{
		ProductID: f.productID, Quantity: qty,
	})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovement_EntradaYSalidaAjustanStock(t *testing.T) {
	f := newFixture(t, 10)

	in := f.inflow(t, 5)
	assert.Equal(t, int64(15), f.quantity(t))
	assert.Equal(t, "XYZ Corp", in.Supplier)
	assert.Equal(t, "Tênis Air", in.Product)

	f.outflow(t, 3)
	assert.Equal(t, int64(12), f.quantity(t))
}

func TestMovement_OrdenNoAlteraResultado(t *testing.T) {
	f := newFixture(t, 10)

	f.outflow(t, 3)
	f.inflow(t, 5)

	assert.Equal(t, int64(12), f.quantity(t))
}

func TestMovement_StockNegativoPermitido(t *testing.T) {
	f := newFixture(t, 2)

	f.outflow(t, 5)

	assert.Equal(t, int64(-3), f.quantity(t), "no hay validación de disponibilidad")
}

func TestMovement_EditarNoReaplicaAjuste(t *testing.T) {
	f := newFixture(t, 10)
	in := f.inflow(t, 5)
	out := f.outflow(t, 3)
	require.Equal(t, int64(12), f.quantity(t))

	qty := int64(50)
	desc := "corregido"
	updatedIn, err := f.uc.UpdateInflow(context.Background(), in.ID, dto.UpdateInflowRequest{Quantity: &qty, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, int64(50), updatedIn.Quantity)
	assert.Equal(t, "corregido", updatedIn.Description)

	updatedOut, err := f.uc.UpdateOutflow(context.Background(), out.ID, dto.UpdateOutflowRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(50), updatedOut.Quantity)

	assert.Equal(t, int64(12), f.quantity(t), "editar el registro no debe tocar la cantidad del producto")
}

func TestMovement_ProductoInexistenteNoPersisteMovimiento(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.uc.CreateOutflow(context.Background(), dto.CreateOutflowRequest{ProductID: 9999, Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	list, total, err := f.repos.Outflows.List(context.Background(), repository.MovementFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}

func TestMovement_ProveedorInexistente(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.uc.CreateInflow(context.Background(), dto.CreateInflowRequest{SupplierID: 9999, ProductID: f.productID, Quantity: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, int64(10), f.quantity(t))
}

func TestMovement_CantidadInvalida(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.uc.CreateOutflow(context.Background(), dto.CreateOutflowRequest{ProductID: f.productID, Quantity: 0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, int64(10), f.quantity(t))
}

func TestMovement_ConcurrenciaSinPerderActualizaciones(t *testing.T) {
	f := newFixture(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateInflow(context.Background(), dto.CreateInflowRequest{
				SupplierID: f.supplierID, ProductID: f.productID, Quantity: 3,
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateOutflow(context.Background(), dto.CreateOutflowRequest{
				ProductID: f.productID, Quantity: 1,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100+40*3-40), f.quantity(t))
}

func TestMovement_ListarConFiltros(t *testing.T) {
	f := newFixture(t, 10)
	f.inflow(t, 1)
	f.inflow(t, 2)

	out, err := f.uc.ListInflows(context.Background(), repository.MovementFilter{Product: "air"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Page.Total)
	assert.Equal(t, int64(2), out.Items[0].Quantity, "más reciente primero")

	out, err = f.uc.ListInflows(context.Background(), repository.MovementFilter{Product: "otro"}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, out.Page.Total)
}
