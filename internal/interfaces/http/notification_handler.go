package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cllmenate/inventory-management/internal/application/notification"
)

// NotificationHandler notificaciones de tareas del usuario autenticado.
type NotificationHandler struct {
	tracker *notification.Tracker
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(tracker *notification.Tracker) *NotificationHandler {
	return &NotificationHandler{tracker: tracker}
}

// List godoc
// @Summary      Listar notificaciones de tareas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {object}  dto.TaskNotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.tracker.List(c.Context(), GetUserID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id  path  int  true  "ID de la notificación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.tracker.MarkRead(c.Context(), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Download godoc
// @Summary      Descargar archivo de una exportación terminada
// @Tags         notifications
// @Security     Bearer
// @Produce      octet-stream
// @Param        id  path  int  true  "ID de la notificación"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/download [get]
func (h *NotificationHandler) Download(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return invalidID(c)
	}
	art, err := h.tracker.Download(c.Context(), GetUserID(c), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Attachment(art.Filename)
	c.Set(fiber.HeaderContentType, art.ContentType)
	// fasthttp cierra el body (io.Closer) cuando termina de enviarlo
	return c.SendStream(art.Body)
}
