package gservice_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/hal9000y/gmail-reply/internal/gservice"
)

type staticClient struct {
	clt *http.Client
	err error
}

func (s staticClient) HTTPClient(context.Context) (*http.Client, error) {
	return s.clt, s.err
}

func TestGMail(t *testing.T) {
	var gotDraft gmail.Draft

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/gmail/v1/users/me/messages/m-1":
			assert.Equal(t, "full", r.URL.Query().Get("format"))
			_ = json.NewEncoder(w).Encode(gmail.Message{Id: "m-1", ThreadId: "t-1", Snippet: "hello"})
		case r.Method == http.MethodPost && r.URL.Path == "/gmail/v1/users/me/drafts":
			_ = json.NewDecoder(r.Body).Decode(&gotDraft)
			_ = json.NewEncoder(w).Encode(gmail.Draft{Id: "d-1", Message: &gmail.Message{Id: "m-2", ThreadId: "t-1"}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := gservice.NewGmail(staticClient{clt: srv.Client()}, option.WithEndpoint(srv.URL+"/"))
	ctx := context.Background()

	msg, err := svc.GetMessage(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "t-1", msg.ThreadId)
	assert.Equal(t, "hello", msg.Snippet)

	draft, err := svc.CreateDraft(ctx, "t-1", []byte("Subject: Re: hi\r\n\r\nThanks"))
	require.NoError(t, err)
	assert.Equal(t, "d-1", draft.Id)

	require.NotNil(t, gotDraft.Message)
	assert.Equal(t, "t-1", gotDraft.Message.ThreadId)
	raw, err := base64.URLEncoding.DecodeString(gotDraft.Message.Raw)
	require.NoError(t, err)
	assert.Equal(t, "Subject: Re: hi\r\n\r\nThanks", string(raw))

	_, err = svc.GetMessage(ctx, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "messages.Get failed")
}

func TestGMailWithoutToken(t *testing.T) {
	svc := gservice.NewGmail(staticClient{err: errors.New("no token defined")})

	_, err := svc.GetMessage(context.Background(), "m-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tok.HTTPClient failed")
}
