package http

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dataio"
	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/notification"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
)

// DataIOHandler importación y exportación de cualquier entidad del catálogo.
// La entidad la fija EntityScope en el grupo de rutas.
type DataIOHandler struct {
	exporter *dataio.Exporter
	importer *dataio.Importer
	tracker  *notification.Tracker
	storage  ports.ArtifactStorage
	log      zerolog.Logger
}

// NewDataIOHandler construye el handler.
func NewDataIOHandler(
	exporter *dataio.Exporter,
	importer *dataio.Importer,
	tracker *notification.Tracker,
	storage ports.ArtifactStorage,
	log zerolog.Logger,
) *DataIOHandler {
	return &DataIOHandler{exporter: exporter, importer: importer, tracker: tracker, storage: storage, log: log}
}

func (h *DataIOHandler) schema(c *fiber.Ctx) (catalog.Schema, error) {
	s, ok := GetSchema(c)
	if !ok {
		return catalog.Schema{}, catalog.ErrUnknownEntity
	}
	return s, nil
}

// Export godoc
// @Summary      Exportar todos los registros
// @Tags         data
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv | json | xml | pdf"  default(csv)
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products/export [get]
func (h *DataIOHandler) Export(c *fiber.Ctx) error {
	schema, err := h.schema(c)
	if err != nil {
		return respondError(c, err)
	}
	format, err := dataio.ParseExportFormat(c.Query("format", "csv"))
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.exporter.ExportAll(c.Context(), schema, format, schema.App)
	if err != nil {
		h.log.Error().Err(err).Str("model", schema.Name).Str("format", string(format)).Msg("exportación fallida")
		return respondError(c, err)
	}
	c.Attachment(res.Filename)
	c.Set(fiber.HeaderContentType, res.ContentType)
	return c.Send(res.Content)
}

// Import godoc
// @Summary      Importar archivo (síncrono)
// @Description  Todo o nada: si una fila falla no se guarda ninguna y se devuelven los errores "Row N: ...".
// @Tags         data
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "csv, json, xlsx, xls o xml"
// @Param        format   formData  string  false  "formato; por defecto la extensión del archivo"
// @Param        mapping  formData  string  false  "JSON columna_origen → campo"
// @Success      200  {object}  dto.ImportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *DataIOHandler) Import(c *fiber.Ctx) error {
	schema, err := h.schema(c)
	if err != nil {
		return respondError(c, err)
	}
	fh, format, mapping, err := uploadParams(c)
	if err != nil {
		return respondError(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	count, err := h.importer.Import(c.Context(), f, dataio.ImportRequest{Schema: schema, Format: format, Mapping: mapping})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ImportResponse{Count: count})
}

// ExportAsync godoc
// @Summary      Exportar en segundo plano
// @Tags         data
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AsyncExportRequest  true  "format"
// @Success      202   {object}  dto.AsyncJobResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/products/export/async [post]
func (h *DataIOHandler) ExportAsync(c *fiber.Ctx) error {
	schema, err := h.schema(c)
	if err != nil {
		return respondError(c, err)
	}
	var in dto.AsyncExportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	format, err := dataio.ParseExportFormat(in.Format)
	if err != nil {
		return respondError(c, err)
	}
	n, err := h.tracker.Submit(c.Context(), notification.SubmitRequest{
		UserID: GetUserID(c),
		Kind:   entity.TaskTypeExport,
		Schema: schema,
		Format: string(format),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(jobResponse(n))
}

// ImportAsync godoc
// @Summary      Importar en segundo plano
// @Description  El archivo se guarda en el almacenamiento y el worker lo procesa; el resultado llega como notificación.
// @Tags         data
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file     formData  file    true   "csv, json, xlsx, xls o xml"
// @Param        mapping  formData  string  false  "JSON columna_origen → campo"
// @Success      202  {object}  dto.AsyncJobResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/import/async [post]
func (h *DataIOHandler) ImportAsync(c *fiber.Ctx) error {
	schema, err := h.schema(c)
	if err != nil {
		return respondError(c, err)
	}
	fh, format, mapping, err := uploadParams(c)
	if err != nil {
		return respondError(c, err)
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	// el worker detecta el formato por la extensión del archivo guardado
	key := "imports/" + uuid.NewString() + "." + string(format)
	if err := h.storage.Save(c.Context(), key, f, fh.Size); err != nil {
		return respondError(c, err)
	}
	n, err := h.tracker.Submit(c.Context(), notification.SubmitRequest{
		UserID:    GetUserID(c),
		Kind:      entity.TaskTypeImport,
		Schema:    schema,
		Format:    string(format),
		StagedKey: key,
		Mapping:   mapping,
	})
	if err != nil {
		if derr := h.storage.Delete(context.WithoutCancel(c.Context()), key); derr != nil {
			h.log.Warn().Err(derr).Str("key", key).Msg("no se pudo borrar el archivo preparado")
		}
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(jobResponse(n))
}

func jobResponse(n *entity.TaskNotification) dto.AsyncJobResponse {
	return dto.AsyncJobResponse{NotificationID: n.ID, TaskID: n.TaskID, Status: string(n.Status)}
}

var errMissingFile = errors.New("el campo multipart 'file' es requerido")

// uploadParams lee el archivo, el formato (campo format o extensión) y el mapping opcional.
func uploadParams(c *fiber.Ctx) (*multipart.FileHeader, dataio.Format, map[string]string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, "", nil, badRequest(errMissingFile)
	}
	var format dataio.Format
	if v := c.FormValue("format"); v != "" {
		format, err = dataio.ParseImportFormat(v)
	} else {
		format, err = dataio.FormatFromFilename(fh.Filename)
	}
	if err != nil {
		return nil, "", nil, err
	}
	var mapping map[string]string
	if raw := strings.TrimSpace(c.FormValue("mapping")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
			return nil, "", nil, badRequest(errors.New("mapping debe ser un objeto JSON de texto a texto"))
		}
	}
	return fh, format, mapping, nil
}
