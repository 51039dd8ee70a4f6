package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	service "github.com/taffyrocks/wg-nursery-system-sub000/internal/service/whatsapp"
)

// WebhookHandler adapts the WhatsApp channel: Meta's verification handshake,
// worker messages and manual outbound notices.
type WebhookHandler struct {
	svc    service.MessagingService
	logger *zap.Logger
}

// NewWebhookHandler constructs the HTTP handler adapter.
func NewWebhookHandler(svc service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, logger: logger}
}

// Verify echoes hub.challenge when hub.verify_token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	challenge, err := h.svc.VerifyWebhookToken(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
	)
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.String("client_ip", c.ClientIP()), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive dispatches worker messages. Only an undecodable body is refused.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	// Meta retries anything but a 200, and workers already got an error reply.
	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("failed processing webhook", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// SendMessage pushes a manual notice, e.g. a stock alert, to one number.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("failed sending outbound", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}
	c.Status(http.StatusAccepted)
}
