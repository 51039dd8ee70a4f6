package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultAPIURL = "https://api.anthropic.com/v1/messages"
	apiVersion    = "2023-06-01"
	model         = "claude-3-haiku-20240307"
	maxTokens     = 256

	// NoCommand is returned by the model when the message maps to no command.
	NoCommand = "NONE"
)

const systemPrompt = `You translate messages from nursery workers into exactly one slash command.
Supported commands:
/sell <batch> <qty> <price> [tendered]   plants sold from a batch
/loss <batch> <qty> [pest|disease|reason] plants lost or damaged
/germinated <batch> <count>              final germinated count of a batch
/plant <batch> <qty>                     plants moved out of a batch
/stock <batch>                           stock question
Batch identifiers look like 2024-ASC-EUC-001.
Reply with the command only, on one line, with no explanation.
If the message is not one of these actions or a value is missing, reply with NONE.`

// Client defines the interface for AI text processing.
type Client interface {
	TranslateToCommand(ctx context.Context, input string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	apiURL     string
}

// Option customizes the client.
type Option func(*anthropicClient)

// WithAPIURL points the client at another messages endpoint.
func WithAPIURL(url string) Option {
	return func(c *anthropicClient) { c.apiURL = url }
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string, opts ...Option) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	c := &anthropicClient{httpClient: client, apiURL: defaultAPIURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// TranslateToCommand asks the model for the slash command matching input. It
// returns an empty string when the model finds no command.
func (c *anthropicClient) TranslateToCommand(ctx context.Context, input string) (string, error) {
	reqBody := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []Message{
			{Role: "user", Content: input},
			{Role: "assistant", Content: "/"},
		},
	}

	var respBody messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&respBody).
		Post(c.apiURL)

	if err != nil {
		return "", fmt.Errorf("anthropic api call: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic api error: %s", resp.String())
	}
	if len(respBody.Content) == 0 {
		return "", fmt.Errorf("empty response from ai")
	}

	// the assistant turn was prefilled with the leading slash
	text := strings.TrimSpace(respBody.Content[0].Text)
	if line, _, found := strings.Cut(text, "\n"); found {
		text = strings.TrimSpace(line)
	}
	text = strings.TrimPrefix(text, "/")
	if text == "" || strings.EqualFold(text, NoCommand) {
		return "", nil
	}
	return "/" + text, nil
}
