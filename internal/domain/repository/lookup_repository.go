package repository

import (
	"context"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// LookupRepository consultas genéricas por tipo de entidad, usadas por la importación
// (resolución de relaciones) y la exportación (carga completa).
type LookupRepository interface {
	ExistsByID(ctx context.Context, t catalog.EntityType, id int64) (bool, error)
	// FindIDsByField busca coincidencia exacta sin distinguir mayúsculas; devuelve a lo sumo limit ids.
	FindIDsByField(ctx context.Context, t catalog.EntityType, field, value string, limit int) ([]int64, error)
	ListAll(ctx context.Context, t catalog.EntityType) ([]catalog.Exportable, error)
}

// Repositories agrupa los repositorios atados a una misma transacción o pool.
type Repositories struct {
	Brands        BrandRepository
	Categories    CategoryRepository
	Suppliers     SupplierRepository
	ProductModels ProductModelRepository
	Products      ProductRepository
	Inflows       InflowRepository
	Outflows      OutflowRepository
	Lookup        LookupRepository
}
