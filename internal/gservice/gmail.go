// Package gservice wraps the Gmail API calls used for replying to messages.
package gservice

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUserID = "me"

type tokenClient interface {
	HTTPClient(ctx context.Context) (*http.Client, error)
}

// NewGmail creates a GMail service authorized through tok.
func NewGmail(tok tokenClient, opts ...option.ClientOption) *GMail {
	return &GMail{tok: tok, opts: opts}
}

// GMail reads messages and stores reply drafts.
type GMail struct {
	tok  tokenClient
	opts []option.ClientOption
}

// GetMessage fetches the full message including headers and body parts.
func (m *GMail) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	msg, err := svc.Users.Messages.Get(gmailUserID, msgID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}

// CreateDraft stores an RFC 822 message as a draft in the given thread.
func (m *GMail) CreateDraft(ctx context.Context, threadID string, raw []byte) (*gmail.Draft, error) {
	svc, err := m.newSvc(ctx)
	if err != nil {
		return nil, fmt.Errorf("newSvc failed: %w", err)
	}

	draft := &gmail.Draft{
		Message: &gmail.Message{
			ThreadId: threadID,
			Raw:      base64.URLEncoding.EncodeToString(raw),
		},
	}

	created, err := svc.Users.Drafts.Create(gmailUserID, draft).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("drafts.Create failed: %w", err)
	}

	return created, nil
}

func (m *GMail) newSvc(ctx context.Context) (*gmail.Service, error) {
	clt, err := m.tok.HTTPClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("tok.HTTPClient failed: %w", err)
	}

	opts := append([]option.ClientOption{option.WithHTTPClient(clt)}, m.opts...)

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	return svc, nil
}
