package memory

import (
	"context"
	"sync"

	"staycal/internal/app/auth"
)

// TokenVerifier is a static token table standing in for the external JWT
// verifier during tests and local runs.
type TokenVerifier struct {
	mu     sync.RWMutex
	tokens map[string]auth.Identity
}

func NewTokenVerifier() *TokenVerifier {
	return &TokenVerifier{tokens: make(map[string]auth.Identity)}
}

func (v *TokenVerifier) Grant(token string, identity auth.Identity) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = identity
}

func (v *TokenVerifier) Verify(ctx context.Context, token string) (auth.Identity, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	identity, ok := v.tokens[token]
	if !ok {
		return auth.Identity{}, auth.ErrTokenInvalid
	}
	return identity, nil
}

var _ auth.Verifier = (*TokenVerifier)(nil)
