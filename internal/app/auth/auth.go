package auth

import (
	"context"
	"errors"

	"staycal/internal/domain/user"
)

var ErrTokenInvalid = errors.New("auth: token invalid")

// Identity is what the external token verifier yields for a valid token.
type Identity struct {
	UserID string
	Role   user.Role
}

// Verifier checks a bearer token. Session issuance and the JWT mechanics
// live outside this system; only the contract is known here.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
