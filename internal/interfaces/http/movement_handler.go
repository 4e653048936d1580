package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/inventory"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
)

// MovementHandler entradas y salidas de stock (protegido).
// Crear un movimiento ajusta la cantidad del producto; editarlo no.
type MovementHandler struct {
	uc *inventory.MovementUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase) *MovementHandler {
	return &MovementHandler{uc: uc}
}

func movementFilter(c *fiber.Ctx) repository.MovementFilter {
	return repository.MovementFilter{
		Product:      c.Query("product"),
		SerialNumber: c.Query("serial_number"),
		CategoryID:   queryID(c, "category"),
		BrandID:      queryID(c, "brand"),
	}
}

// CreateInflow godoc
// @Summary      Registrar entrada de stock
// @Tags         inflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInflowRequest  true  "supplier, product, quantity, description"
// @Success      201   {object}  dto.InflowResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inflows [post]
func (h *MovementHandler) CreateInflow(c *fiber.Ctx) error {
	var in dto.CreateInflowRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateInflow(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetInflow devuelve la entrada o 404.
func (h *MovementHandler) GetInflow(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetInflow(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "entrada")
	}
	return c.JSON(out)
}

// UpdateInflow edita proveedor, cantidad o descripción sin tocar el stock.
func (h *MovementHandler) UpdateInflow(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateInflowRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateInflow(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "entrada")
	}
	return c.JSON(out)
}

// ListInflows godoc
// @Summary      Listar entradas
// @Tags         inflows
// @Security     Bearer
// @Produce      json
// @Param        product        query  string  false  "Título del producto (contiene)"
// @Param        serial_number  query  string  false  "Número de serie (contiene)"
// @Param        category       query  int     false  "ID de categoría"
// @Param        brand          query  int     false  "ID de marca"
// @Success      200  {object}  dto.InflowListResponse
// @Router       /api/inflows [get]
func (h *MovementHandler) ListInflows(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListInflows(c.Context(), movementFilter(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateOutflow godoc
// @Summary      Registrar salida de stock
// @Description  No valida stock disponible: la cantidad del producto puede quedar negativa.
// @Tags         outflows
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOutflowRequest  true  "product, quantity, description"
// @Success      201   {object}  dto.OutflowResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/outflows [post]
func (h *MovementHandler) CreateOutflow(c *fiber.Ctx) error {
	var in dto.CreateOutflowRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateOutflow(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetOutflow devuelve la salida o 404.
func (h *MovementHandler) GetOutflow(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetOutflow(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "salida")
	}
	return c.JSON(out)
}

// UpdateOutflow edita cantidad o descripción sin tocar el stock.
func (h *MovementHandler) UpdateOutflow(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateOutflowRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateOutflow(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	if out == nil {
		return notFound(c, "salida")
	}
	return c.JSON(out)
}

// ListOutflows lista salidas con los mismos filtros que las entradas.
func (h *MovementHandler) ListOutflows(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.ListOutflows(c.Context(), movementFilter(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
