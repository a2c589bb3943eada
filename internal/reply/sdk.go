package reply

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// SDKGenerator generates replies through the google.golang.org/genai client.
type SDKGenerator struct {
	client *genai.Client
	model  string
}

// NewSDKGenerator creates a genai client bound to the given endpoint and key.
func NewSDKGenerator(ctx context.Context, httpClient *http.Client, baseURL, apiKey, model string) (*SDKGenerator, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient failed: %w", err)
	}

	return &SDKGenerator{client: client, model: model}, nil
}

// Generate renders the prompt and returns the first candidate's first text part.
func (g *SDKGenerator) Generate(ctx context.Context, req EmailRequest) (string, error) {
	if err := req.validate(); err != nil {
		return "", err
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(req)), nil)
	if err != nil {
		return "", fmt.Errorf("Models.GenerateContent failed: %w", err)
	}

	switch {
	case res == nil || len(res.Candidates) == 0 || res.Candidates[0] == nil:
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	case res.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: candidate has no content", ErrMalformedResponse)
	case len(res.Candidates[0].Content.Parts) == 0 || res.Candidates[0].Content.Parts[0] == nil:
		return "", fmt.Errorf("%w: content has no parts", ErrMalformedResponse)
	case res.Candidates[0].Content.Parts[0].Text == "":
		return "", fmt.Errorf("%w: part has no text", ErrMalformedResponse)
	}

	return res.Candidates[0].Content.Parts[0].Text, nil
}
