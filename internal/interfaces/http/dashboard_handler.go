package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cllmenate/inventory-management/internal/application/metrics"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	svc *metrics.Service
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(svc *metrics.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// GetDashboard devuelve todas las métricas del dashboard.
// GET /api/dashboard
//
// Cada bloque se lee de la caché; en un miss se recalcula y se guarda con TTL.
// Las métricas pueden quedar desactualizadas hasta el próximo refresco o
// importación.
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	out, err := h.svc.Dashboard(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Refresh recalcula y reescribe todas las métricas (solo admin).
// POST /api/dashboard/refresh
func (h *DashboardHandler) Refresh(c *fiber.Ctx) error {
	if err := h.svc.Refresh(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
