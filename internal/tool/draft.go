package tool

import (
	"mime"
	"net/mail"
	"strings"
)

type draftHeaders struct {
	to         EmailAddress
	subject    string
	inReplyTo  string
	references string
}

// composeDraft renders a plain text RFC 822 reply threaded to the original message.
func composeDraft(h draftHeaders, body string) []byte {
	var sb strings.Builder

	to := mail.Address{Name: h.to.Name, Address: h.to.Email}
	sb.WriteString("To: " + to.String() + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", h.subject) + "\r\n")

	if h.inReplyTo != "" {
		sb.WriteString("In-Reply-To: " + h.inReplyTo + "\r\n")
		refs := strings.TrimSpace(h.references + " " + h.inReplyTo)
		sb.WriteString("References: " + refs + "\r\n")
	}

	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	sb.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))

	return []byte(sb.String())
}
