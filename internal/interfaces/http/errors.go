package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

func errorJSON(c *fiber.Ctx, status int, code, message string, details ...string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message, Details: details})
}

func badBody(c *fiber.Ctx) error {
	return errorJSON(c, fiber.StatusBadRequest, "INVALID_BODY", "cuerpo inválido")
}

func notFound(c *fiber.Ctx, what string) error {
	return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", what+" no encontrado")
}

// badRequest marca err como entrada inválida (400 VALIDATION).
func badRequest(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}

// respondError traduce errores de dominio y del pipeline de archivos a HTTP.
func respondError(c *fiber.Ctx, err error) error {
	var (
		rowErr *dataio.RowValidationError
		fmtErr *dataio.UnsupportedFormatError
		extErr *dataio.ExtractionError
		relErr *dataio.RelationNotFoundError
		pdfErr *dataio.RenderError
	)
	switch {
	case errors.As(err, &rowErr):
		return errorJSON(c, fiber.StatusBadRequest, "IMPORT_VALIDATION", "el archivo tiene filas inválidas; no se importó ningún registro", rowErr.Errors...)
	case errors.As(err, &fmtErr):
		return errorJSON(c, fiber.StatusBadRequest, "UNSUPPORTED_FORMAT", fmtErr.Error())
	case errors.As(err, &extErr):
		return errorJSON(c, fiber.StatusBadRequest, "EXTRACTION_FAILED", extErr.Error())
	case errors.As(err, &relErr):
		return errorJSON(c, fiber.StatusBadRequest, "RELATION_NOT_FOUND", relErr.Error())
	case errors.As(err, &pdfErr):
		return errorJSON(c, fiber.StatusInternalServerError, "PDF_RENDER_FAILED", pdfErr.Error())
	case errors.Is(err, catalog.ErrUnknownEntity):
		return errorJSON(c, fiber.StatusNotFound, "UNKNOWN_ENTITY", err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrNoArtifact):
		return errorJSON(c, fiber.StatusNotFound, "NO_ARTIFACT", err.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return errorJSON(c, fiber.StatusConflict, "EMAIL_EXISTS", err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		return errorJSON(c, fiber.StatusConflict, "DUPLICATE", err.Error())
	case errors.Is(err, domain.ErrInUse):
		return errorJSON(c, fiber.StatusConflict, "IN_USE", err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrJobFinalized):
		return errorJSON(c, fiber.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, "FORBIDDEN", err.Error())
	default:
		return errorJSON(c, fiber.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
