package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davissontiago/Mateco/internal/batch"
	"github.com/davissontiago/Mateco/internal/model"
	"github.com/davissontiago/Mateco/internal/service"
)

// BatchHandler handles HTTP requests for batch drafting and emission
type BatchHandler struct {
	batches *service.BatchService
}

// NewBatchHandler creates a new batch handler
func NewBatchHandler(batches *service.BatchService) *BatchHandler {
	return &BatchHandler{batches: batches}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *BatchHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/batches/draft", h.BuildDraft)
	router.GET("/v1/batches/current", h.CurrentBatch)
	router.DELETE("/v1/batches/current", h.DiscardBatch)
	router.POST("/v1/batches/view", h.Navigate)
	router.POST("/v1/batches/emissions", h.EmitBatch)
}

// BuildDraft handles a request to generate a fresh draft batch
// @Summary Build a draft batch
// @Description Partition a total into N invoices and fill each one through the selection service
// @Tags batches
// @Accept json
// @Produce json
// @Param request body model.DraftRequest true "Requested total and invoice count"
// @Success 200 {object} model.BatchSnapshotDTO "Draft batch snapshot"
// @Failure 400 {object} model.ErrorResponse "Invalid total or count"
// @Failure 409 {object} model.ErrorResponse "A build or emission pass is already running"
// @Failure 502 {object} model.ErrorResponse "Selection service unavailable"
// @Router /v1/batches/draft [post]
func (h *BatchHandler) BuildDraft(c *gin.Context) {
	var req model.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput+": "+err.Error())
		return
	}

	log.Printf("Building draft batch: total=%.2f count=%d", req.Total, req.Count)
	snapshot, err := h.batches.BuildDraft(c.Request.Context(), req.Total, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, batch.ErrInvalidInput):
			respondBadRequest(c, err.Error())
		case errors.Is(err, service.ErrBatchBusy):
			respondConflict(c, err.Error())
		default:
			respondWithError(c, http.StatusBadGateway, err.Error())
		}
		return
	}

	h.respondSnapshot(c, snapshot)
}

// CurrentBatch handles a request for the current batch snapshot
// @Summary Get the current batch
// @Tags batches
// @Produce json
// @Success 200 {object} model.BatchSnapshotDTO "Current batch snapshot"
// @Failure 404 {object} model.ErrorResponse "No draft batch exists"
// @Router /v1/batches/current [get]
func (h *BatchHandler) CurrentBatch(c *gin.Context) {
	snapshot := h.batches.Snapshot()
	if snapshot.Batch == nil {
		respondNotFound(c, ErrResourceNotFound)
		return
	}

	h.respondSnapshot(c, snapshot)
}

// DiscardBatch handles a request to drop the current draft batch
// @Summary Discard the current batch
// @Tags batches
// @Success 204 "Batch discarded"
// @Failure 409 {object} model.ErrorResponse "A build or emission pass is already running"
// @Router /v1/batches/current [delete]
func (h *BatchHandler) DiscardBatch(c *gin.Context) {
	if err := h.batches.Discard(); err != nil {
		respondConflict(c, err.Error())
		return
	}
	respondNoContent(c)
}

// Navigate handles a request to switch the view projection
// @Summary Navigate between list and detail views
// @Tags batches
// @Accept json
// @Produce json
// @Param request body model.NavigationRequest true "Target view mode and draft index"
// @Success 200 {object} model.BatchSnapshotDTO "Snapshot after navigation"
// @Failure 400 {object} model.ErrorResponse "Unknown mode or index out of range"
// @Router /v1/batches/view [post]
func (h *BatchHandler) Navigate(c *gin.Context) {
	var req model.NavigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput+": "+err.Error())
		return
	}

	snapshot, err := h.batches.NavigateTo(service.ViewMode(req.Mode), req.Index)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	h.respondSnapshot(c, snapshot)
}

// EmitBatch handles a request to emit the current batch sequentially.
// Snapshots are streamed as newline-delimited JSON, one per status
// transition, so the screen can follow the pass in real time.
// @Summary Emit the current batch
// @Description Submit every pending or failed draft to the fiscal backend, one at a time
// @Tags batches
// @Accept json
// @Produce json
// @Param request body model.EmissionRequest true "Payment method and optional customer"
// @Success 200 {object} model.BatchSnapshotDTO "NDJSON stream of batch snapshots"
// @Failure 400 {object} model.ErrorResponse "Invalid request body"
// @Failure 404 {object} model.ErrorResponse "No draft batch exists"
// @Failure 409 {object} model.ErrorResponse "A build or emission pass is already running"
// @Router /v1/batches/emissions [post]
func (h *BatchHandler) EmitBatch(c *gin.Context) {
	var req model.EmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, ErrInvalidInput+": "+err.Error())
		return
	}

	snapshots, err := h.batches.Emit(c.Request.Context(), req.PaymentMethod, req.CustomerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoBatch):
			respondNotFound(c, err.Error())
		case errors.Is(err, service.ErrBatchBusy):
			respondConflict(c, err.Error())
		case errors.Is(err, service.ErrNothingToEmit):
			respondUnprocessableEntity(c, err.Error())
		default:
			respondInternalServerError(c, err.Error())
		}
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Status(http.StatusOK)

	encoder := json.NewEncoder(c.Writer)
	for snapshot := range snapshots {
		dto := &model.BatchSnapshotDTO{}
		dto.FromSnapshot(snapshot)
		if err := encoder.Encode(dto); err != nil {
			log.Printf("Client stopped observing emission stream: %v", err)
			// Keep draining; the emission pass continues regardless
			continue
		}
		c.Writer.Flush()
	}
}

func (h *BatchHandler) respondSnapshot(c *gin.Context, snapshot *service.Snapshot) {
	dto := &model.BatchSnapshotDTO{}
	dto.FromSnapshot(snapshot)
	respondOK(c, dto)
}
