// Package session implements the login gate: a two-state machine whose token
// is persisted through a storage.Store.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"tasknest/internal/storage"
)

// State is the gate state.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged in"
	}
	return "logged out"
}

// ErrMissingCredentials is returned when username or password is blank.
var ErrMissingCredentials = errors.New("username and password required")

// Authenticator exchanges credentials for an access token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Gate holds the current session.
type Gate struct {
	store  storage.Store
	logger *zap.Logger
	token  *oauth2.Token
}

// Open restores the session from store. A stored but unreadable token is
// discarded and the gate starts logged out.
func Open(store storage.Store, logger *zap.Logger) (*Gate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Gate{store: store, logger: logger.Named("session")}

	raw, ok, err := store.Get(storage.KeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if !ok {
		return g, nil
	}
	var tok oauth2.Token
	if err := json.Unmarshal([]byte(raw), &tok); err != nil || tok.AccessToken == "" {
		g.logger.Warn("discarding unreadable token", zap.Error(err))
		if err := store.Clear(storage.KeyToken); err != nil {
			return nil, fmt.Errorf("clear token: %w", err)
		}
		return g, nil
	}
	g.token = &tok
	return g, nil
}

// State returns the current gate state.
func (g *Gate) State() State {
	if g.token != nil {
		return LoggedIn
	}
	return LoggedOut
}

// Token returns the current token, or nil when logged out.
func (g *Gate) Token() *oauth2.Token {
	return g.token
}

// AccessToken returns the bearer credential, or "" when logged out.
func (g *Gate) AccessToken() string {
	if g.token == nil {
		return ""
	}
	return g.token.AccessToken
}

// Login authenticates and, on success, persists the token and moves to LoggedIn.
// On failure the state is unchanged.
func (g *Gate) Login(ctx context.Context, auth Authenticator, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return ErrMissingCredentials
	}
	access, err := auth.Login(ctx, username, password)
	if err != nil {
		g.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		return err
	}
	tok := &oauth2.Token{AccessToken: access, TokenType: "Bearer"}
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := g.store.Set(storage.KeyToken, string(b)); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	g.token = tok
	g.logger.Info("logged in", zap.String("username", username))
	return nil
}

// Logout clears the token. Logging out while logged out is a no-op.
func (g *Gate) Logout() error {
	return g.clear("logged out")
}

// Invalidate ends the session after the store rejected the token.
func (g *Gate) Invalidate() error {
	return g.clear("session invalidated")
}

func (g *Gate) clear(reason string) error {
	if err := g.store.Clear(storage.KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if g.token != nil {
		g.logger.Info(reason)
	}
	g.token = nil
	return nil
}
