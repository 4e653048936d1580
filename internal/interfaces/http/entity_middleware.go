package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// LocalSchema key del esquema de la entidad resuelta para la ruta.
const LocalSchema = "entity_schema"

// EntityScope fija en c.Locals el esquema de la entidad de un grupo de rutas
// (/api/products, /api/inflows...). Los handlers de importación y exportación
// son genéricos y lo leen con GetSchema.
func EntityScope(schema catalog.Schema) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(LocalSchema, schema)
		return c.Next()
	}
}

// GetSchema devuelve el esquema fijado por EntityScope.
func GetSchema(c *fiber.Ctx) (catalog.Schema, bool) {
	s, ok := c.Locals(LocalSchema).(catalog.Schema)
	return s, ok
}
