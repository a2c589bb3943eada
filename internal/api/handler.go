// Package api serves reply generation over plain HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"

	"github.com/hal9000y/gmail-reply/internal/reply"
)

const maxBodyBytes = 1 << 20

type replyGenerator interface {
	Generate(ctx context.Context, req reply.EmailRequest) (string, error)
}

type markdownStripper interface {
	StripMarkdown(md string) string
}

// GenerateRequest is the JSON body of POST /api/email/generate.
type GenerateRequest struct {
	EmailContent string `json:"emailContent"`
	Tone         string `json:"tone,omitempty"`
	PlainText    bool   `json:"plainText,omitempty"`
}

// ReplyHandler answers POST requests with the generated reply as text/plain.
type ReplyHandler struct {
	gen   replyGenerator
	strip markdownStripper
}

// NewReplyHandler creates a ReplyHandler.
func NewReplyHandler(gen replyGenerator, strip markdownStripper) *ReplyHandler {
	return &ReplyHandler{gen: gen, strip: strip}
}

func (h *ReplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	var in GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	text, err := h.gen.Generate(r.Context(), reply.EmailRequest{
		EmailContent: in.EmailContent,
		Tone:         in.Tone,
	})
	if errors.Is(err, reply.ErrEmptyContent) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Println("h.gen.Generate failed", err)
		http.Error(w, "Unable to generate reply", http.StatusBadGateway)
		return
	}

	if in.PlainText {
		text = h.strip.StripMarkdown(text)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
