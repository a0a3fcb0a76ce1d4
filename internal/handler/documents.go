package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"docvault/internal/apierror"
	"docvault/internal/dto"
	"docvault/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DocumentsHandler serves upload, listing, detail, summary download, the
// duplicate purge and the destructive wipe.
type DocumentsHandler struct {
	ingest service.IngestService
	docs   service.DocumentService
	dedup  service.DedupService
	rdb    *redis.Client
}

func NewDocumentsHandler(ingest service.IngestService, docs service.DocumentService, dedup service.DedupService, rdb *redis.Client) *DocumentsHandler {
	return &DocumentsHandler{ingest: ingest, docs: docs, dedup: dedup, rdb: rdb}
}

// Upload accepts multipart/form-data with either a single "file" field or
// multiple files under "files". Files with unsupported extensions are
// skipped, matching the permissive upload contract: one bad file must not
// sink the batch.
func (h *DocumentsHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Solicitud multipart invalida"))
		return
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		uploads = form.File["file"]
	}
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("No se adjunto ningun archivo"))
		return
	}

	var created []dto.DocumentResponse
	for _, fh := range uploads {
		if fh.Filename == "" {
			continue
		}
		content, rerr := readUpload(fh)
		if rerr != nil {
			log.Error().Err(rerr).Msg("error al leer el archivo")
			c.JSON(http.StatusInternalServerError, apierror.New("Error al leer el archivo"))
			return
		}
		docs, ierr := h.ingest.Ingest(c.Request.Context(), fh.Filename, content)
		if ierr != nil {
			if errors.Is(ierr, service.ErrUnsupportedFiletype) {
				continue
			}
			log.Error().Err(ierr).Msg("error al procesar el archivo")
			c.JSON(http.StatusInternalServerError, apierror.New("Error al procesar el archivo"))
			return
		}
		created = append(created, docs...)
	}

	if len(created) == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("Ningun archivo valido fue subido"))
		return
	}
	invalidateProducts(c.Request.Context(), h.rdb)
	c.JSON(http.StatusCreated, dto.UploadResponse{Documents: created})
}

func (h *DocumentsHandler) List(c *gin.Context) {
	filter := dto.DocumentFilter{
		Supplier: c.Query("supplier"),
		Invoice:  c.Query("invoice"),
		Start:    c.Query("start"),
		End:      c.Query("end"),
	}
	docs, err := h.docs.List(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("error al listar documentos")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar documentos"))
		return
	}
	c.JSON(http.StatusOK, dto.DocumentListResponse{Documents: docs})
}

func (h *DocumentsHandler) Get(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	doc, err := h.docs.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Documento no encontrado"))
			return
		}
		log.Error().Err(err).Msg("error al obtener el documento")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener el documento"))
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentsHandler) DownloadSummary(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		return
	}
	data, filename, err := h.docs.SummaryPDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, apierror.New("Documento no encontrado"))
			return
		}
		log.Error().Err(err).Msg("error al generar el resumen")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el resumen"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *DocumentsHandler) DeleteAll(c *gin.Context) {
	if err := h.docs.DeleteAll(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("error al eliminar documentos")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al eliminar documentos"))
		return
	}
	invalidateProducts(c.Request.Context(), h.rdb)
	c.JSON(http.StatusOK, gin.H{"message": "Todos los documentos han sido eliminados"})
}

// PurgeDuplicates removes duplicate XML documents, keeping the earliest of
// each group. Exclusive maintenance operation.
func (h *DocumentsHandler) PurgeDuplicates(c *gin.Context) {
	removed, err := h.dedup.Purge(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("error al depurar duplicados")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al depurar duplicados"))
		return
	}
	if removed > 0 {
		invalidateProducts(c.Request.Context(), h.rdb)
	}
	c.JSON(http.StatusOK, dto.PurgeResponse{Removed: removed})
}

func (h *DocumentsHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.docs.ListSuppliers(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("error al listar proveedores")
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar proveedores"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
