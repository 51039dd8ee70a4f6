package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/batches"
)

// BatchHandler exposes batch lifecycle operations.
type BatchHandler struct {
	svc    *batches.Service
	logger *zap.Logger
}

// NewBatchHandler constructs the batch HTTP adapter.
func NewBatchHandler(svc *batches.Service, logger *zap.Logger) *BatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchHandler{svc: svc, logger: logger}
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type germinationRequest struct {
	TotalGerminated int `json:"totalGerminated"`
}

type statusRequest struct {
	Status models.BatchStatus `json:"status"`
}

// Create opens a new batch.
func (h *BatchHandler) Create(c *gin.Context) {
	var in models.NewBatchInput
	if !bindJSON(c, &in) {
		return
	}
	b, err := h.svc.CreateBatch(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// List returns batches, filtered by ?status= when given.
func (h *BatchHandler) List(c *gin.Context) {
	out, err := h.svc.ListBatches(c.Request.Context(), models.BatchStatus(c.Query("status")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Get returns one batch.
func (h *BatchHandler) Get(c *gin.Context) {
	b, err := h.svc.GetBatch(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Germination finalizes the germinated count.
func (h *BatchHandler) Germination(c *gin.Context) {
	var req germinationRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondBatch(c)(h.svc.FinalizeGermination(c.Request.Context(), c.Param("id"), req.TotalGerminated))
}

// Planting records plants moved out.
func (h *BatchHandler) Planting(c *gin.Context) {
	var req quantityRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondBatch(c)(h.svc.RecordPlanting(c.Request.Context(), c.Param("id"), req.Quantity))
}

// Status sets a lifecycle status.
func (h *BatchHandler) Status(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondBatch(c)(h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status))
}

// Archive freezes the batch.
func (h *BatchHandler) Archive(c *gin.Context) {
	h.respondBatch(c)(h.svc.Archive(c.Request.Context(), c.Param("id")))
}

// Adjust applies an inventory adjustment.
func (h *BatchHandler) Adjust(c *gin.Context) {
	var in models.AdjustmentInput
	if !bindJSON(c, &in) {
		return
	}
	adj, b, err := h.svc.ApplyAdjustment(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"adjustment": adj, "batch": b})
}

// ChemicalApplication logs a chemical treatment of the batch.
func (h *BatchHandler) ChemicalApplication(c *gin.Context) {
	var in models.ChemicalApplicationLog
	if !bindJSON(c, &in) {
		return
	}
	entry, err := h.svc.RecordChemicalApplication(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// Inspections lists the inspections of a batch.
func (h *BatchHandler) Inspections(c *gin.Context) {
	out, err := h.svc.ListInspections(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// RecordInspection stores a batch or location inspection.
func (h *BatchHandler) RecordInspection(c *gin.Context) {
	var in models.InspectionInput
	if !bindJSON(c, &in) {
		return
	}
	inspection, err := h.svc.RecordInspection(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, inspection)
}

func (h *BatchHandler) respondBatch(c *gin.Context) func(*models.PlantBatch, error) {
	return func(b *models.PlantBatch, err error) {
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}
