package panel

import (
	"context"

	"github.com/hearthlabs/hearth-panel/internal/auth"
	"github.com/hearthlabs/hearth-panel/internal/session"
)

// SessionTokenSource adapts a session.Store to the api.TokenSource and
// statefeed token interfaces.
type SessionTokenSource struct {
	Store session.Store
}

// Token returns the stored bearer token, if any.
func (s SessionTokenSource) Token(ctx context.Context) (string, bool) {
	sess, err := s.Store.GetSession(ctx)
	if err != nil || sess.Token == "" {
		return "", false
	}
	return sess.Token, true
}

// SessionRoleSource adapts a session.Store to the mutation engine's
// RoleSource.
type SessionRoleSource struct {
	Store session.Store
}

// Role returns the acting user's role. False means no session, which the
// permission gate treats as a denial.
func (s SessionRoleSource) Role(ctx context.Context) (auth.Role, bool) {
	sess, err := s.Store.GetSession(ctx)
	if err != nil {
		return "", false
	}
	return sess.Identity.Role, true
}
