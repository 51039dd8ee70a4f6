package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/reporting"
)

// ReportHandler exposes inventory and sales summaries.
type ReportHandler struct {
	svc    *reporting.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewReportHandler constructs the reporting HTTP adapter.
func NewReportHandler(svc *reporting.Service, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger, now: time.Now}
}

func (h *ReportHandler) Inventory(c *gin.Context) {
	summary, err := h.svc.InventorySummary(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Sales summarizes ?from= to ?to= inclusive. Defaults to the last seven days.
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if to.IsZero() {
		to = h.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -7)
	}

	summary, err := h.svc.SalesSummary(c.Request.Context(), from, to.Add(time.Nanosecond))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
