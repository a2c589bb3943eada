package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hal9000y/gmail-reply/internal/api"
	"github.com/hal9000y/gmail-reply/internal/format"
	"github.com/hal9000y/gmail-reply/internal/reply"
)

type generatorMock struct {
	GenerateFunc func(ctx context.Context, req reply.EmailRequest) (string, error)
}

func (m *generatorMock) Generate(ctx context.Context, req reply.EmailRequest) (string, error) {
	return m.GenerateFunc(ctx, req)
}

func TestReplyHandler(t *testing.T) {
	gen := &generatorMock{
		GenerateFunc: func(_ context.Context, req reply.EmailRequest) (string, error) {
			switch {
			case strings.TrimSpace(req.EmailContent) == "":
				return "", reply.ErrEmptyContent
			case req.EmailContent == "boom":
				return "", &reply.APIError{StatusCode: http.StatusInternalServerError, Body: "upstream"}
			case req.Tone == "":
				return "Hello,\n\nThanks.\n", nil
			}
			return "**Hello** (" + req.Tone + ")", nil
		},
	}

	cases := []struct {
		name        string
		method      string
		contentType string
		body        string
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "reply without tone",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"emailContent":"Can we meet?"}`,
			wantStatus:  http.StatusOK,
			wantBody:    "Hello,\n\nThanks.\n",
		},
		{
			name:        "reply with tone and plain text",
			method:      http.MethodPost,
			contentType: "application/json; charset=utf-8",
			body:        `{"emailContent":"Can we meet?","tone":"formal","plainText":true}`,
			wantStatus:  http.StatusOK,
			wantBody:    "Hello (formal)",
		},
		{
			name:       "wrong method",
			method:     http.MethodGet,
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:        "wrong content type",
			method:      http.MethodPost,
			contentType: "text/plain",
			body:        "Can we meet?",
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "invalid json",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"emailContent":`,
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "empty content",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"emailContent":"  "}`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    reply.ErrEmptyContent.Error(),
		},
		{
			name:        "generator failure",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        `{"emailContent":"boom"}`,
			wantStatus:  http.StatusBadGateway,
			wantBody:    "Unable to generate reply",
		},
	}

	handler := api.NewReplyHandler(gen, format.Converter{})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/email/generate", strings.NewReader(tc.body))
			if tc.contentType != "" {
				req.Header.Set("Content-Type", tc.contentType)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantBody != "" {
				if tc.wantStatus == http.StatusOK {
					assert.Equal(t, tc.wantBody, rec.Body.String())
					assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
				} else {
					assert.Contains(t, rec.Body.String(), tc.wantBody)
				}
			}
		})
	}
}

func TestReplyHandlerTransportError(t *testing.T) {
	gen := &generatorMock{
		GenerateFunc: func(context.Context, reply.EmailRequest) (string, error) {
			return "", errors.New("dial tcp: connection refused")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/email/generate", strings.NewReader(`{"emailContent":"hi"}`))
	req.Header.Set("Content-Type", "application/json")

	api.NewReplyHandler(gen, format.Converter{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
