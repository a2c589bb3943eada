// Package tool exposes reply generation as MCP tools.
package tool

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer creates an MCP server with the reply tools.
// reply_to_message is registered only when a Gmail service is provided.
func NewServer(gen replyGenerator, conv replyConverter, svc gmailSvc) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gmail-reply", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_reply",
		Description: "Write a single professional reply to the given email text",
	}, NewGenerateReply(gen, conv).GenerateReply)

	if svc != nil {
		mcp.AddTool(server, &mcp.Tool{
			Name:        "reply_to_message",
			Description: "Write a reply to a Gmail message, optionally saving it as a draft in the thread",
		}, NewReplyToMessage(svc, gen, conv).ReplyToMessage)
	}

	return server
}
