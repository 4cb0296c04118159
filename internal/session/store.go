package session

import (
	"context"
	"errors"
	"time"

	"github.com/hearthlabs/hearth-panel/internal/auth"
)

// Identity is the authenticated user as reported by the backend at login
// or registration. It is replaced wholesale on profile updates; individual
// fields are never mutated in place.
type Identity struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        auth.Role `json:"role"`
	HouseholdID string    `json:"householdId"`
	AvatarURL   string    `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Session pairs the credential token with the identity it belongs to.
type Session struct {
	Token    string
	Identity Identity
}

// ErrNoSession is returned by GetSession when no session is stored.
var ErrNoSession = errors.New("no stored session")

// Store holds the authenticated session. It is the single source of truth
// for "who is acting". Implementations are constructed explicitly and
// injected; there is no package-level instance.
//
// IsAuthenticated is true iff a token is present. It does not validate
// token freshness; that is the backend's job, surfaced as a 401 on the
// next call.
type Store interface {
	SetSession(ctx context.Context, token string, identity Identity) error
	GetSession(ctx context.Context) (*Session, error)
	ClearSession(ctx context.Context) error
	IsAuthenticated(ctx context.Context) bool
}
