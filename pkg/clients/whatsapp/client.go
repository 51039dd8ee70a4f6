package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
)

// Client exposes WhatsApp Cloud API operations used by the application.
type Client interface {
	SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error)
	MarkRead(ctx context.Context, messageID string) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient    *resty.Client
	phoneNumberID string
}

// NewClient builds a WhatsApp API client using the provided configuration values.
func NewClient(cfg config.WhatsAppConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", base, cfg.APIVersion)).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AccessToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient:    restyClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendTextMessageRequest represents a simplified text message payload.
type SendTextMessageRequest struct {
	To         string
	Body       string
	PreviewURL bool
}

// SendTextMessageResponse mirrors the successful response from Meta.
type SendTextMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// apiError represents a WhatsApp Cloud API error payload.
type apiError struct {
	Error struct {
		Message   string `json:"message"`
		Type      string `json:"type"`
		Code      int    `json:"code"`
		FBTraceID string `json:"fbtrace_id"`
	} `json:"error"`
}

// SendTextMessage sends a plain text message. Replies to workers are capped
// at the Cloud API's 4096 character body limit.
func (c *APIClient) SendTextMessage(ctx context.Context, req SendTextMessageRequest) (*SendTextMessageResponse, error) {
	body := req.Body
	if len(body) > maxBodyLength {
		body = body[:maxBodyLength]
	}
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                req.To,
		"type":              "text",
		"text": map[string]any{
			"body":        body,
			"preview_url": req.PreviewURL,
		},
	}

	result := new(SendTextMessageResponse)
	if err := c.post(ctx, payload, result); err != nil {
		return nil, fmt.Errorf("send whatsapp message: %w", err)
	}
	return result, nil
}

// MarkRead acknowledges an inbound message so the sender sees it was processed.
func (c *APIClient) MarkRead(ctx context.Context, messageID string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	if err := c.post(ctx, payload, nil); err != nil {
		return fmt.Errorf("mark message %s read: %w", messageID, err)
	}
	return nil
}

const maxBodyLength = 4096

func (c *APIClient) post(ctx context.Context, payload any, result any) error {
	apiErr := new(apiError)
	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(apiErr)
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Post(fmt.Sprintf("%s/messages", c.phoneNumberID))
	if err != nil {
		return err
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		code := resp.StatusCode()
		if apiErr.Error.Code != 0 {
			code = apiErr.Error.Code
		}
		return fmt.Errorf("whatsapp api error: code=%d, message=%s", code, apiErr.Error.Message)
	}
	return nil
}
