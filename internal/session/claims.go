package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of JWT claims the panel surfaces for display:
// who the token was issued to and when it lapses.
type TokenClaims struct {
	Subject   string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// PeekClaims decodes a token's registered claims WITHOUT verifying the
// signature. The panel has no signing key and no business validating
// tokens; the backend does that on every request. This exists purely so
// the UI can show "session expires at ...".
func PeekClaims(token string) (*TokenClaims, error) {
	parser := jwt.NewParser()
	claims := &jwt.RegisteredClaims{}

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("decoding token claims: %w", err)
	}

	out := &TokenClaims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		t := claims.IssuedAt.Time
		out.IssuedAt = &t
	}
	if claims.ExpiresAt != nil {
		t := claims.ExpiresAt.Time
		out.ExpiresAt = &t
	}
	return out, nil
}
