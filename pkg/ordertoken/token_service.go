// Package ordertoken manages the per-order secret tokens that let
// unauthenticated diners retrieve their own orders. Tokens are held in the
// diner's session store; losing the session means losing access to those
// guest orders, which is an accepted limitation.
package ordertoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/m2-berezin/safedine-app/pkg/session"
)

const tokenBytes = 32

type (
	TokenService interface {
		GenerateToken() (string, error)
		StoreToken(ctx context.Context, sessionID, orderID, token string) error
		GetToken(ctx context.Context, sessionID, orderID string) string
		RemoveToken(ctx context.Context, sessionID, orderID string) error
		ListTokens(ctx context.Context, sessionID string) map[string]string
	}

	tokenService struct {
		store session.Store
	}
)

func NewTokenService(store session.Store) TokenService {
	return &tokenService{store: store}
}

// GenerateToken produces a 64-character hex token from 32 bytes of
// cryptographically secure randomness. Tokens are per-order and never
// reused.
func (s *tokenService) GenerateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *tokenService) load(ctx context.Context, sessionID string) map[string]string {
	tokens := map[string]string{}
	// A corrupt stored map reads as empty; token storage errors never
	// propagate into callers.
	session.GetJSON(ctx, s.store, sessionID, session.NamespaceGuestTokens, &tokens)
	return tokens
}

func (s *tokenService) StoreToken(ctx context.Context, sessionID, orderID, token string) error {
	tokens := s.load(ctx, sessionID)
	tokens[orderID] = token
	return session.SetJSON(ctx, s.store, sessionID, session.NamespaceGuestTokens, tokens)
}

func (s *tokenService) GetToken(ctx context.Context, sessionID, orderID string) string {
	return s.load(ctx, sessionID)[orderID]
}

// RemoveToken drops the order's token; removing an unknown order id is a
// no-op.
func (s *tokenService) RemoveToken(ctx context.Context, sessionID, orderID string) error {
	tokens := s.load(ctx, sessionID)
	if _, ok := tokens[orderID]; !ok {
		return nil
	}
	delete(tokens, orderID)
	return session.SetJSON(ctx, s.store, sessionID, session.NamespaceGuestTokens, tokens)
}

func (s *tokenService) ListTokens(ctx context.Context, sessionID string) map[string]string {
	return s.load(ctx, sessionID)
}
