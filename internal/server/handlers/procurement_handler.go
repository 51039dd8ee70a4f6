package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/procurement"
)

// ProcurementHandler exposes purchase orders and goods receipt.
type ProcurementHandler struct {
	svc    *procurement.Service
	logger *zap.Logger
}

// NewProcurementHandler constructs the procurement HTTP adapter.
func NewProcurementHandler(svc *procurement.Service, logger *zap.Logger) *ProcurementHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcurementHandler{svc: svc, logger: logger}
}

func (h *ProcurementHandler) Create(c *gin.Context) {
	var in models.PurchaseOrderInput
	if !bindJSON(c, &in) {
		return
	}
	po, err := h.svc.CreatePurchaseOrder(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *ProcurementHandler) Get(c *gin.Context) {
	po, err := h.svc.GetPurchaseOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

// List returns purchase orders, filtered by ?status= when given.
func (h *ProcurementHandler) List(c *gin.Context) {
	out, err := h.svc.ListPurchaseOrders(c.Request.Context(), models.PurchaseOrderStatus(c.Query("status")))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Receive logs a delivery against the order.
func (h *ProcurementHandler) Receive(c *gin.Context) {
	var in models.IncomingGoodsInput
	if !bindJSON(c, &in) {
		return
	}
	entry, po, err := h.svc.ReceiveGoods(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"incomingGoods": entry, "purchaseOrder": po})
}

func (h *ProcurementHandler) Cancel(c *gin.Context) {
	po, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, po)
}
