package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/sales"
)

// IdempotencyHeader carries the client's deduplication key for sales.
const IdempotencyHeader = "Idempotency-Key"

// SaleHandler exposes point-of-sale operations.
type SaleHandler struct {
	svc    *sales.Service
	logger *zap.Logger
}

// NewSaleHandler constructs the sales HTTP adapter.
func NewSaleHandler(svc *sales.Service, logger *zap.Logger) *SaleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleHandler{svc: svc, logger: logger}
}

// Create logs a sale. Underpaid sales succeed and carry an underpayment block.
func (h *SaleHandler) Create(c *gin.Context) {
	var in models.SaleInput
	if !bindJSON(c, &in) {
		return
	}
	in.IdempotencyKey = c.GetHeader(IdempotencyHeader)

	res, err := h.svc.LogSale(c.Request.Context(), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Get returns one sale.
func (h *SaleHandler) Get(c *gin.Context) {
	sale, err := h.svc.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// List returns sales between ?from= and ?to= (YYYY-MM-DD, both optional).
func (h *SaleHandler) List(c *gin.Context) {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	out, err := h.svc.ListSales(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Invoice bills a sale.
func (h *SaleHandler) Invoice(c *gin.Context) {
	invoice, err := h.svc.CreateInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

const queryDateLayout = "2006-01-02"

// parseRange reads optional day bounds; to is inclusive of its whole day.
func parseRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if fromRaw != "" {
		if from, err = time.Parse(queryDateLayout, fromRaw); err != nil {
			return from, to, models.Invalid("from", "must be a date formatted YYYY-MM-DD")
		}
	}
	if toRaw != "" {
		if to, err = time.Parse(queryDateLayout, toRaw); err != nil {
			return from, to, models.Invalid("to", "must be a date formatted YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to, nil
}
