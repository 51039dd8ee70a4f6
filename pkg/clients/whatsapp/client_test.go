package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.WhatsAppConfig{
		AccessToken:   "token",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})
}

func TestSendTextMessage(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v20.0/12345/messages", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	})

	resp, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "2246", Body: strings.Repeat("x", 5000)})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)

	text := got["text"].(map[string]any)
	assert.Len(t, text["body"], maxBodyLength)
	assert.Equal(t, "2246", got["to"])
}

func TestSendTextMessageAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid parameter","code":100}}`))
	})

	_, err := c.SendTextMessage(context.Background(), SendTextMessageRequest{To: "2246", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=100, message=Invalid parameter")
}

func TestMarkRead(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, c.MarkRead(context.Background(), "wamid.9"))
	assert.Equal(t, "read", got["status"])
	assert.Equal(t, "wamid.9", got["message_id"])
}
