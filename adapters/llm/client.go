package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"exportlens/internal"
	"exportlens/internal/errors"
	"exportlens/ports"

	"github.com/tidwall/gjson"
)

const serviceName = "completion"

// Config holds the connection settings for an OpenAI-compatible endpoint
type Config struct {
	APIKey  string
	BaseURL string
	// Timeout of zero keeps the transport default
	Timeout time.Duration
}

// OpenAIClient implements ports.Completer against the chat completions API
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *internal.Logger
}

var _ ports.Completer = (*OpenAIClient)(nil)

// NewClient creates a completion client; a missing key is a configuration error
func NewClient(config Config) (*OpenAIClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, errors.ConfigInvalid("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     internal.DefaultLogger.With("OpenAIClient"),
	}, nil
}

// Complete performs one blocking round-trip. Every failure is returned as an
// EXTERNAL_SERVICE_ERROR AppError; provider rejections carry a *StatusError cause.
func (c *OpenAIClient) Complete(ctx context.Context, req ports.CompletionRequest) (*ports.CompletionResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("missing model"))
	}

	// Chat Completions API (kept minimal: one system + one user message)
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
	}
	body := reqBody{
		Model: req.Model,
		Messages: []msg{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("marshal request: %w", err))
	}

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("POST %s model=%s promptLength=%d maxTokens=%d", url, req.Model, len(req.User), req.MaxTokens)
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, fmt.Errorf("read response: %w", err))
	}
	c.logger.Debug("response status=%d in %s (%d bytes)", resp.StatusCode, time.Since(start).Round(time.Millisecond), len(respRaw))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.ExternalServiceError(serviceName, classifyStatus(resp, respRaw))
	}

	out, err := decodeCompletion(respRaw)
	if err != nil {
		return nil, errors.ExternalServiceError(serviceName, err)
	}
	return out, nil
}

// decodeCompletion normalizes the first choice. Chat responses carry
// choices[0].message.content (a string or a list of text parts); legacy
// completion responses carry choices[0].text.
func decodeCompletion(raw []byte) (*ports.CompletionResponse, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("malformed response: invalid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.Get("choices.0").Exists() {
		return nil, fmt.Errorf("malformed response: missing choices")
	}

	var content string
	switch msg := doc.Get("choices.0.message.content"); {
	case msg.IsArray():
		var parts []string
		for _, part := range msg.Array() {
			if text := part.Get("text"); text.Exists() {
				parts = append(parts, text.String())
			}
		}
		content = strings.Join(parts, "")
	case msg.Exists():
		content = msg.String()
	default:
		text := doc.Get("choices.0.text")
		if !text.Exists() {
			return nil, fmt.Errorf("malformed response: choice has neither message content nor text")
		}
		content = text.String()
	}

	out := &ports.CompletionResponse{Content: content}
	if usage := doc.Get("usage"); usage.Exists() {
		out.Usage = &ports.UsageData{
			PromptTokens:     int(usage.Get("prompt_tokens").Int()),
			CompletionTokens: int(usage.Get("completion_tokens").Int()),
			TotalTokens:      int(usage.Get("total_tokens").Int()),
			Model:            doc.Get("model").String(),
		}
	}
	return out, nil
}
