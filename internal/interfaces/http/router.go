package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/auth"
	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/application/metrics"
	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/application/usecase"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	BrandUC        *usecase.BrandUseCase
	CategoryUC     *usecase.CategoryUseCase
	SupplierUC     *usecase.SupplierUseCase
	ProductModelUC *usecase.ProductModelUseCase
	ProductUC      *usecase.ProductUseCase
	Movements      *inventory.MovementUseCase
	Exporter       *dataio.Exporter
	Importer       *dataio.Importer
	Tracker        *notification.Tracker
	Storage        ports.ArtifactStorage
	Metrics        *metrics.Service
	JWTSecret      string
	Logger         zerolog.Logger
}

// crudRoutes handlers de un recurso; remove u options nil = ruta no expuesta.
type crudRoutes struct {
	list, create, get, update, remove, options fiber.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)

	brands := NewNamedHandler(deps.BrandUC, "marca")
	categories := NewNamedHandler(deps.CategoryUC, "categoría")
	suppliers := NewNamedHandler(deps.SupplierUC, "proveedor")
	models := NewProductModelHandler(deps.ProductModelUC)
	products := NewProductHandler(deps.ProductUC)
	movements := NewMovementHandler(deps.Movements)
	data := NewDataIOHandler(deps.Exporter, deps.Importer, deps.Tracker, deps.Storage, deps.Logger)

	resources := []struct {
		slug   string
		entity catalog.EntityType
		routes crudRoutes
	}{
		{"brands", catalog.TypeBrand, crudRoutes{brands.List, brands.Create, brands.GetByID, brands.Update, brands.Delete, brands.Options}},
		{"categories", catalog.TypeCategory, crudRoutes{categories.List, categories.Create, categories.GetByID, categories.Update, categories.Delete, categories.Options}},
		{"suppliers", catalog.TypeSupplier, crudRoutes{suppliers.List, suppliers.Create, suppliers.GetByID, suppliers.Update, suppliers.Delete, suppliers.Options}},
		{"product-models", catalog.TypeProductModel, crudRoutes{models.List, models.Create, models.GetByID, models.Update, models.Delete, models.Options}},
		{"products", catalog.TypeProduct, crudRoutes{products.List, products.Create, products.GetByID, products.Update, products.Delete, products.Options}},
		{"inflows", catalog.TypeInflow, crudRoutes{list: movements.ListInflows, create: movements.CreateInflow, get: movements.GetInflow, update: movements.UpdateInflow}},
		{"outflows", catalog.TypeOutflow, crudRoutes{list: movements.ListOutflows, create: movements.CreateOutflow, get: movements.GetOutflow, update: movements.UpdateOutflow}},
	}

	for _, r := range resources {
		g := protected.Group("/"+r.slug, EntityScope(catalog.MustSchema(r.entity)))

		// rutas estáticas antes de /:id
		g.Get("/export", data.Export)
		g.Post("/export/async", data.ExportAsync)
		g.Post("/import", data.Import)
		g.Post("/import/async", data.ImportAsync)
		if r.routes.options != nil {
			g.Get("/options", r.routes.options)
		}

		g.Get("/", r.routes.list)
		g.Post("/", r.routes.create)
		g.Get("/:id", r.routes.get)
		g.Put("/:id", r.routes.update)
		if r.routes.remove != nil {
			g.Delete("/:id", RequireRole(entity.RoleAdmin), r.routes.remove)
		}
	}

	// Notificaciones de tareas
	notifications := NewNotificationHandler(deps.Tracker)
	ng := protected.Group("/notifications")
	ng.Get("/", notifications.List)
	ng.Post("/:id/read", notifications.MarkRead)
	ng.Get("/:id/download", notifications.Download)

	// Dashboard
	dashboard := NewDashboardHandler(deps.Metrics)
	protected.Get("/dashboard", dashboard.GetDashboard)
	protected.Post("/dashboard/refresh", RequireRole(entity.RoleAdmin), dashboard.Refresh)
}
