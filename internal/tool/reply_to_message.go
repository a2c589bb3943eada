package tool

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-reply/internal/reply"
)

// ReplyToMessageRequest identifies the Gmail message to answer.
type ReplyToMessageRequest struct {
	MessageID string `json:"message_id" jsonschema:"ID of the Gmail message to reply to"`
	Tone      string `json:"tone,omitempty" jsonschema:"optional tone of the reply, e.g. formal or casual"`
	PlainText bool   `json:"plain_text,omitempty" jsonschema:"strip any markdown from the generated reply"`
	SaveDraft bool   `json:"save_draft,omitempty" jsonschema:"store the reply as a draft in the message thread"`
}

// ReplyToMessageResponse contains the generated reply and where it is addressed.
type ReplyToMessageResponse struct {
	MessageID string       `json:"message_id" jsonschema:"ID of the answered message"`
	ThreadID  string       `json:"thread_id" jsonschema:"thread ID"`
	To        EmailAddress `json:"to" jsonschema:"recipient of the reply"`
	Subject   string       `json:"subject" jsonschema:"subject of the reply"`
	Reply     string       `json:"reply" jsonschema:"the generated reply"`
	DraftID   string       `json:"draft_id,omitempty" jsonschema:"ID of the saved draft"`
}

type gmailSvc interface {
	GetMessage(ctx context.Context, msgID string) (*gmail.Message, error)
	CreateDraft(ctx context.Context, threadID string, raw []byte) (*gmail.Draft, error)
}

type htmlConverter interface {
	HTML2Text(raw []byte) (string, error)
}

type replyConverter interface {
	htmlConverter
	markdownStripper
}

// NewReplyToMessage creates a new ReplyToMessage tool.
func NewReplyToMessage(svc gmailSvc, gen replyGenerator, conv replyConverter) *ReplyToMessage {
	return &ReplyToMessage{
		svc:  svc,
		gen:  gen,
		conv: conv,
	}
}

// ReplyToMessage answers a stored Gmail message.
type ReplyToMessage struct {
	svc  gmailSvc
	gen  replyGenerator
	conv replyConverter
}

// ReplyToMessage fetches the message, generates a reply and optionally saves it as a draft.
func (t *ReplyToMessage) ReplyToMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReplyToMessageRequest,
) (*mcp.CallToolResult, ReplyToMessageResponse, error) {
	msg, err := t.svc.GetMessage(ctx, input.MessageID)
	if err != nil {
		return nil, ReplyToMessageResponse{}, fmt.Errorf("get message %s failed: %w", input.MessageID, err)
	}
	if msg.Payload == nil {
		return nil, ReplyToMessageResponse{}, fmt.Errorf("message %s has no payload", input.MessageID)
	}

	hdr := collectHeaders(msg.Payload.Headers)

	body, err := t.bodyText(msg.Payload)
	if err != nil {
		return nil, ReplyToMessageResponse{}, fmt.Errorf("bodyText failed: %w", err)
	}
	if body == "" {
		body = msg.Snippet
	}

	text, err := generate(ctx, t.gen, t.conv, reply.EmailRequest{
		EmailContent: body,
		Tone:         input.Tone,
	}, input.PlainText)
	if err != nil {
		return nil, ReplyToMessageResponse{}, fmt.Errorf("generate failed: %w", err)
	}

	to := hdr.replyTo
	if to == "" {
		to = hdr.from
	}

	resp := ReplyToMessageResponse{
		MessageID: msg.Id,
		ThreadID:  msg.ThreadId,
		To:        parseEmailAddress(to),
		Subject:   replySubject(hdr.subject),
		Reply:     text,
	}

	if input.SaveDraft {
		if resp.To.Email == "" {
			return nil, ReplyToMessageResponse{}, fmt.Errorf("message %s has no sender address to reply to", input.MessageID)
		}

		raw := composeDraft(draftHeaders{
			to:         resp.To,
			subject:    resp.Subject,
			inReplyTo:  hdr.messageID,
			references: hdr.references,
		}, text)

		draft, err := t.svc.CreateDraft(ctx, msg.ThreadId, raw)
		if err != nil {
			return nil, ReplyToMessageResponse{}, fmt.Errorf("svc.CreateDraft failed: %w", err)
		}
		resp.DraftID = draft.Id
	}

	return nil, resp, nil
}

type messageHeaders struct {
	from       string
	replyTo    string
	subject    string
	messageID  string
	references string
}

func collectHeaders(headers []*gmail.MessagePartHeader) messageHeaders {
	var h messageHeaders
	for _, header := range headers {
		switch strings.ToLower(header.Name) {
		case "from":
			h.from = header.Value
		case "reply-to":
			h.replyTo = header.Value
		case "subject":
			h.subject = header.Value
		case "message-id":
			h.messageID = header.Value
		case "references":
			h.references = header.Value
		}
	}
	return h
}

func replySubject(subject string) string {
	subject = strings.TrimSpace(subject)
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	if subject == "" {
		return "Re:"
	}
	return "Re: " + subject
}

func (t *ReplyToMessage) bodyText(payload *gmail.MessagePart) (string, error) {
	textBody, htmlBody := extractMessageBodies(payload)
	if textBody != "" {
		return strings.TrimSpace(textBody), nil
	}
	if htmlBody == "" {
		return "", nil
	}

	converted, err := t.conv.HTML2Text([]byte(htmlBody))
	if err != nil {
		return "", fmt.Errorf("conv.HTML2Text failed: %w", err)
	}

	return converted, nil
}

// extractMessageBodies returns the first text/plain and text/html bodies found depth first.
func extractMessageBodies(part *gmail.MessagePart) (textBody, htmlBody string) {
	if part.Body != nil && part.Body.Data != "" {
		switch part.MimeType {
		case "text/plain":
			textBody = decodeBase64URL(part.Body.Data)
		case "text/html":
			htmlBody = decodeBase64URL(part.Body.Data)
		}
	}

	for _, child := range part.Parts {
		childText, childHTML := extractMessageBodies(child)
		if textBody == "" {
			textBody = childText
		}
		if htmlBody == "" {
			htmlBody = childHTML
		}
	}

	return textBody, htmlBody
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return data
		}
	}
	return string(decoded)
}
