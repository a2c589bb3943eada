package tool

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-reply/internal/reply"
)

// GenerateReplyRequest carries the email to answer.
type GenerateReplyRequest struct {
	EmailContent string `json:"email_content" jsonschema:"the full text of the email to reply to"`
	Tone         string `json:"tone,omitempty" jsonschema:"optional tone of the reply, e.g. formal or casual"`
	PlainText    bool   `json:"plain_text,omitempty" jsonschema:"strip any markdown from the generated reply"`
}

// GenerateReplyResponse contains the generated reply.
type GenerateReplyResponse struct {
	Reply string `json:"reply" jsonschema:"the generated reply"`
}

// NewGenerateReply creates a new GenerateReply tool.
func NewGenerateReply(gen replyGenerator, strip markdownStripper) *GenerateReply {
	return &GenerateReply{gen: gen, strip: strip}
}

// GenerateReply writes a reply for free-form email text.
type GenerateReply struct {
	gen   replyGenerator
	strip markdownStripper
}

// GenerateReply generates one reply for the provided email.
func (t *GenerateReply) GenerateReply(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateReplyRequest,
) (*mcp.CallToolResult, GenerateReplyResponse, error) {
	text, err := generate(ctx, t.gen, t.strip, reply.EmailRequest{
		EmailContent: input.EmailContent,
		Tone:         input.Tone,
	}, input.PlainText)
	if err != nil {
		return nil, GenerateReplyResponse{}, fmt.Errorf("generate failed: %w", err)
	}

	return nil, GenerateReplyResponse{Reply: text}, nil
}
