// Package reply generates email replies through the Gemini generateContent API.
package reply

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyContent indicates the request carries no email to reply to.
var ErrEmptyContent = errors.New("email content is empty")

// EmailRequest is the email to answer and an optional writing tone.
type EmailRequest struct {
	EmailContent string `json:"emailContent"`
	Tone         string `json:"tone,omitempty"`
}

const instructions = `You are an email writing assistant.
Task:
Write exactly ONE professional email reply.

Rules (must follow):
- Do NOT provide multiple options or versions
- Do NOT include headings, bullet points, or explanations
- Do NOT say phrases like "Here are some options" or "To give you the best option"
- Do NOT use markdown
- Output ONLY the final email content

Tone: friendly and professional

Include:
- Greeting
- Email body
- Proper closing

`

// BuildPrompt renders the instruction block, the optional tone clause and the original email.
func BuildPrompt(req EmailRequest) string {
	var sb strings.Builder
	sb.WriteString(instructions)
	if tone := strings.TrimSpace(req.Tone); tone != "" {
		fmt.Fprintf(&sb, "Use a %s tone.\n", tone)
	}
	sb.WriteString("original email: \n")
	sb.WriteString(req.EmailContent)

	return sb.String()
}

func (r EmailRequest) validate() error {
	if strings.TrimSpace(r.EmailContent) == "" {
		return ErrEmptyContent
	}
	return nil
}
