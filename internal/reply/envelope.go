package reply

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedResponse indicates the response body is not a generateContent reply.
var ErrMalformedResponse = errors.New("malformed generateContent response")

type part struct {
	Text *string `json:"text,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type candidate struct {
	Content *content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

func encodeRequest(prompt string) ([]byte, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: &prompt}}}},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return nil, fmt.Errorf("enc.Encode failed: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ExtractText returns candidates[0].content.parts[0].text of a generateContent response body.
func ExtractText(raw []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	switch {
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	case resp.Candidates[0].Content == nil:
		return "", fmt.Errorf("%w: candidate has no content", ErrMalformedResponse)
	case len(resp.Candidates[0].Content.Parts) == 0:
		return "", fmt.Errorf("%w: content has no parts", ErrMalformedResponse)
	case resp.Candidates[0].Content.Parts[0].Text == nil:
		return "", fmt.Errorf("%w: part has no text", ErrMalformedResponse)
	}

	return *resp.Candidates[0].Content.Parts[0].Text, nil
}
