// Package auth handles the Google OAuth2 flow and token persistence.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrTokenNotSet indicates no OAuth token is available.
	ErrTokenNotSet = errors.New("no token defined")
	// ErrInvalidState indicates an unknown, reused or expired OAuth state.
	ErrInvalidState = errors.New("invalid or expired state parameter")
)

const stateTTL = 5 * time.Minute

// Token keeps the current OAuth2 token and the pending authorization states.
type Token struct {
	mu          sync.RWMutex
	cfg         *oauth2.Config
	token       *oauth2.Token
	persistPath string
	states      map[string]time.Time
}

// NewToken creates a Token, restoring a previously persisted token when persistPath exists.
func NewToken(cfg *oauth2.Config, persistPath string) (*Token, error) {
	t := &Token{
		cfg:         cfg,
		persistPath: persistPath,
		states:      make(map[string]time.Time),
	}
	if persistPath == "" {
		return t, nil
	}

	raw, err := os.ReadFile(persistPath)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Token file %s not found, it will be written after authorization", persistPath)
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile failed: %w", err)
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(raw, tok); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}
	t.token = tok

	return t, nil
}

// RedirectURL returns the consent page URL bound to a fresh state value.
func (t *Token) RedirectURL() (string, error) {
	state, err := t.newState()
	if err != nil {
		return "", fmt.Errorf("newState failed: %w", err)
	}

	return t.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (t *Token) newState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	for s, exp := range t.states {
		if now.After(exp) {
			delete(t.states, s)
		}
	}
	t.states[state] = now.Add(stateTTL)

	return state, nil
}

// consumeState reports whether state was issued and is still valid. A state is usable once.
func (t *Token) consumeState(state string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	exp, ok := t.states[state]
	if !ok {
		return false
	}
	delete(t.states, state)

	return time.Now().Before(exp)
}

// AuthorizeCode exchanges an authorization code once its state has been validated.
func (t *Token) AuthorizeCode(ctx context.Context, code, state string) error {
	if state == "" || !t.consumeState(state) {
		return ErrInvalidState
	}

	tok, err := t.cfg.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("cfg.Exchange failed: %w", err)
	}

	t.setToken(tok)

	return nil
}

// OAuthToken returns the current token.
func (t *Token) OAuthToken() (*oauth2.Token, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.token == nil {
		return nil, ErrTokenNotSet
	}

	return t.token, nil
}

func (t *Token) setToken(tok *oauth2.Token) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.token = tok
}

// HTTPClient returns a client authorized with the current token.
// Refreshed tokens replace the stored one so Persist writes the latest.
func (t *Token) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := t.OAuthToken()
	if err != nil {
		return nil, err
	}

	src := &trackingSource{
		owner: t,
		base:  t.cfg.TokenSource(ctx, tok),
	}

	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

type trackingSource struct {
	owner *Token
	base  oauth2.TokenSource
}

func (s *trackingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.owner.setToken(tok)

	return tok, nil
}

// Persist writes the token to disk. It is a no-op without a path or a token.
func (t *Token) Persist() error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.persistPath == "" || t.token == nil {
		return nil
	}

	raw, err := json.Marshal(t.token)
	if err != nil {
		return fmt.Errorf("json.Marshal failed: %w", err)
	}

	if err := os.WriteFile(t.persistPath, raw, 0600); err != nil {
		return fmt.Errorf("os.WriteFile failed: %w", err)
	}

	return nil
}
