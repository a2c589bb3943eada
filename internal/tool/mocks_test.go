package tool_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-reply/internal/reply"
)

type gmailSvcMock struct {
	GetMessageFunc  func(ctx context.Context, msgID string) (*gmail.Message, error)
	CreateDraftFunc func(ctx context.Context, threadID string, raw []byte) (*gmail.Draft, error)
}

func (m *gmailSvcMock) GetMessage(ctx context.Context, msgID string) (*gmail.Message, error) {
	return m.GetMessageFunc(ctx, msgID)
}

func (m *gmailSvcMock) CreateDraft(ctx context.Context, threadID string, raw []byte) (*gmail.Draft, error) {
	return m.CreateDraftFunc(ctx, threadID, raw)
}

type generatorMock struct {
	GenerateFunc func(ctx context.Context, req reply.EmailRequest) (string, error)
}

func (m *generatorMock) Generate(ctx context.Context, req reply.EmailRequest) (string, error) {
	return m.GenerateFunc(ctx, req)
}

type converterMock struct {
	HTML2TextFunc     func(raw []byte) (string, error)
	StripMarkdownFunc func(md string) string
}

func (m *converterMock) HTML2Text(raw []byte) (string, error) {
	return m.HTML2TextFunc(raw)
}

func (m *converterMock) StripMarkdown(md string) string {
	return m.StripMarkdownFunc(md)
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { clientSession.Close() })

	return clientSession
}
