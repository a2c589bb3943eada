package tool

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/hal9000y/gmail-reply/internal/reply"
)

// EmailAddress represents an email address with optional display name.
type EmailAddress struct {
	Name  string `json:"name,omitempty" jsonschema:"the display name"`
	Email string `json:"email" jsonschema:"the email address"`
}

type replyGenerator interface {
	Generate(ctx context.Context, req reply.EmailRequest) (string, error)
}

type markdownStripper interface {
	StripMarkdown(md string) string
}

// generate runs the generator and optionally strips markdown from the result.
func generate(ctx context.Context, gen replyGenerator, strip markdownStripper, req reply.EmailRequest, plainText bool) (string, error) {
	text, err := gen.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("gen.Generate failed: %w", err)
	}

	if plainText {
		text = strip.StripMarkdown(text)
	}

	return text, nil
}

// parseEmailAddress returns the first address of an address-list header.
// Unparsable or empty values yield an empty EmailAddress.
func parseEmailAddress(value string) EmailAddress {
	list, err := mail.ParseAddressList(value)
	if err != nil || len(list) == 0 {
		return EmailAddress{}
	}

	return EmailAddress{Name: list[0].Name, Email: list[0].Address}
}
