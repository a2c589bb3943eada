package reply

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the public Gemini API host.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gemini-3-flash-preview"

	apiVersion   = "v1beta"
	apiKeyHeader = "x-goog-api-key"
	maxErrorBody = 4 << 10
)

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generateContent returned %d: %s", e.StatusCode, e.Body)
}

// Generator calls generateContent over plain HTTP.
type Generator struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewGenerator creates a Generator. Empty baseURL and model fall back to the defaults.
func NewGenerator(client *http.Client, baseURL, apiKey, model string) *Generator {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
	}
}

// Generate sends one generateContent request for the email and returns the reply text.
func (g *Generator) Generate(ctx context.Context, req EmailRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	body, err := encodeRequest(BuildPrompt(req))
	if err != nil {
		return "", fmt.Errorf("encodeRequest failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext failed: %w", err)
	}
	httpReq.Header.Set(apiKeyHeader, g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("client.Do failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("io.ReadAll failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(raw) > maxErrorBody {
			raw = raw[:maxErrorBody]
		}
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	text, err := ExtractText(raw)
	if err != nil {
		return "", fmt.Errorf("ExtractText failed: %w", err)
	}

	return text, nil
}

func (g *Generator) endpoint() string {
	return fmt.Sprintf("%s/%s/models/%s:generateContent", g.baseURL, apiVersion, url.PathEscape(g.model))
}
