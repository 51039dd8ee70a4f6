package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

type fakeMessaging struct {
	handleErr error
	sendErr   error
	payloads  []models.WebhookPayload
	sent      []models.OutboundMessageRequest
}

func (f *fakeMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode != "subscribe" || token != "secret" {
		return "", errors.New("token mismatch")
	}
	return challenge, nil
}

func (f *fakeMessaging) HandleWebhook(_ context.Context, payload models.WebhookPayload) error {
	f.payloads = append(f.payloads, payload)
	return f.handleErr
}

func (f *fakeMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return f.sendErr
}

func webhookEngine(svc *fakeMessaging) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestVerifyEchoesChallenge(t *testing.T) {
	r := webhookEngine(&fakeMessaging{})

	rec := serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = serve(r, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestReceiveAcknowledgesDispatchFailures(t *testing.T) {
	svc := &fakeMessaging{handleErr: errors.New("store down")}
	r := webhookEngine(svc)

	rec := serve(r, http.MethodPost, "/webhook", `{"object":"whatsapp_business_account","entry":[]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.payloads, 1)
	assert.Equal(t, "whatsapp_business_account", svc.payloads[0].Object)

	rec = serve(r, http.MethodPost, "/webhook", `{"entry":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessage(t *testing.T) {
	svc := &fakeMessaging{}
	r := webhookEngine(svc)

	rec := serve(r, http.MethodPost, "/send-message", `{"to":"2246","message":"Batch 2024-ASC-EUC-001 is low"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.sent, 1)

	rec = serve(r, http.MethodPost, "/send-message", `{"to":"2246"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.sendErr = errors.New("meta unavailable")
	rec = serve(r, http.MethodPost, "/send-message", `{"to":"2246","message":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
