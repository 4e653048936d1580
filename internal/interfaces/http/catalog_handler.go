package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/usecase"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// namedService lo implementan los casos de uso de marcas, categorías y proveedores.
type namedService interface {
	Create(ctx context.Context, in dto.NamedRequest) (*dto.NamedResponse, error)
	Get(ctx context.Context, id int64) (*dto.NamedResponse, error)
	Update(ctx context.Context, id int64, in dto.NamedRequest) (*dto.NamedResponse, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.NameFilter, limit, offset int) (*dto.NamedListResponse, error)
	Options(ctx context.Context) ([]dto.OptionResponse, error)
}

// pathID lee el parámetro :id como entero positivo.
func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func invalidID(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "INVALID_ID", "id debe ser un entero positivo")
}

// pageParams limit (por defecto 20, máximo 100) y offset.
func pageParams(c *fiber.Ctx) (int, int) {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p.Limit, p.Offset
}

func queryID(c *fiber.Ctx, key string) int64 {
	v := c.QueryInt(key, 0)
	if v < 0 {
		return 0
	}
	return int64(v)
}

// ── Marcas, categorías y proveedores ─────────────────────────────────────────

// NamedHandler CRUD de entidades con nombre y descripción (protegido).
type NamedHandler struct {
	uc   namedService
	what string
}

// NewNamedHandler construye el handler; what se usa en los mensajes 404.
func NewNamedHandler(uc namedService, what string) *NamedHandler {
	return &NamedHandler{uc: uc, what: what}
}

// Create godoc
// @Summary      Crear marca, categoría o proveedor
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NamedRequest  true  "name, description"
// @Success      201   {object}  dto.NamedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/brands [post]
func (h *NamedHandler) Create(c *fiber.Ctx) error {
	var in dto.NamedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID devuelve la entidad o 404.
func (h *NamedHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, h.what)
	}
	return c.JSON(out)
}

// Update reemplaza nombre y descripción.
func (h *NamedHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.NamedRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, h.what)
	}
	return c.JSON(out)
}

// Delete elimina; 409 IN_USE si otros registros la referencian.
func (h *NamedHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List lista con filtro ?name= y paginación.
func (h *NamedHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), repository.NameFilter{Name: c.Query("name")}, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Options lista id + etiqueta para selectores.
func (h *NamedHandler) Options(c *fiber.Ctx) error {
	out, err := h.uc.Options(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Modelos de producto ──────────────────────────────────────────────────────

// ProductModelHandler CRUD de modelos de producto (protegido).
type ProductModelHandler struct {
	uc *usecase.ProductModelUseCase
}

// NewProductModelHandler construye el handler.
func NewProductModelHandler(uc *usecase.ProductModelUseCase) *ProductModelHandler {
	return &ProductModelHandler{uc: uc}
}

// Create godoc
// @Summary      Crear modelo de producto
// @Tags         product-models
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductModelRequest  true  "name, brand, description"
// @Success      201   {object}  dto.ProductModelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/product-models [post]
func (h *ProductModelHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductModelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID devuelve el modelo o 404.
func (h *ProductModelHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "modelo de producto")
	}
	return c.JSON(out)
}

// Update reemplaza los datos del modelo.
func (h *ProductModelHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.ProductModelRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "modelo de producto")
	}
	return c.JSON(out)
}

// Delete elimina el modelo.
func (h *ProductModelHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List filtra por ?name= y ?brand=.
func (h *ProductModelHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	f := repository.ProductModelFilter{Name: c.Query("name"), BrandID: queryID(c, "brand")}
	out, err := h.uc.List(c.Context(), f, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Options lista id + "Marca Modelo".
func (h *ProductModelHandler) Options(c *fiber.Ctx) error {
	out, err := h.uc.Options(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
