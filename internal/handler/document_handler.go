package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/davissontiago/Mateco/internal/repository"
	"github.com/davissontiago/Mateco/internal/service"
)

// DocumentHandler handles HTTP requests for the issued-document ledger
type DocumentHandler struct {
	batches *service.BatchService
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(batches *service.BatchService) *DocumentHandler {
	return &DocumentHandler{batches: batches}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *DocumentHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/v1/documents", h.ListDocuments)
	router.GET("/v1/documents/:id/pdf", h.DocumentPDF)
}

// ListDocuments handles a request for issued fiscal documents
// @Summary List issued documents
// @Tags documents
// @Produce json
// @Param offset query int false "Pagination offset"
// @Param limit query int false "Page size (default 50)"
// @Success 200 {array} domain.IssuedDocument "Issued documents, newest first"
// @Failure 500 {object} model.ErrorResponse "Ledger query failed"
// @Router /v1/documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	documents, err := h.batches.ListDocuments(c.Request.Context(), offset, limit)
	if err != nil {
		log.Printf("Failed to list documents: %v", err)
		respondInternalServerError(c, ErrInternalServer)
		return
	}

	respondOK(c, documents)
}

// DocumentPDF handles a request for an issued document's DANFE
// @Summary Download a document's DANFE
// @Tags documents
// @Produce application/pdf
// @Param id path string true "Document ID"
// @Success 200 {file} binary "Rendered DANFE"
// @Failure 404 {object} model.ErrorResponse "Document not found"
// @Failure 502 {object} model.ErrorResponse "Fiscal backend unavailable"
// @Router /v1/documents/{id}/pdf [get]
func (h *DocumentHandler) DocumentPDF(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	pdfData, err := h.batches.DocumentPDF(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrDocumentNotFound) {
			respondNotFound(c, ErrResourceNotFound)
			return
		}
		log.Printf("Failed to fetch DANFE for %s: %v", id, err)
		respondWithError(c, http.StatusBadGateway, "Failed to fetch document PDF")
		return
	}

	c.Data(http.StatusOK, "application/pdf", pdfData)
}
