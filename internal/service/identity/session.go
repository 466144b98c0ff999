package identity

import (
	"errors"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
)

// AuthState describes where a client is in the sign-in lifecycle.
type AuthState string

const (
	StateLoading       AuthState = "loading"
	StateAuthenticated AuthState = "authenticated"
	StateAnonymous     AuthState = "anonymous"
)

var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrForbidden       = errors.New("insufficient role")
)

// Session is the resolved identity of the caller, passed explicitly to the
// services that act on its behalf.
type Session struct {
	User        *models.User `json:"user"`
	State       AuthState    `json:"state"`
	AccessToken string       `json:"-"`
}

// Anonymous returns a session without a user.
func Anonymous() Session {
	return Session{State: StateAnonymous}
}

// Authenticated reports whether the session carries a signed-in user.
func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.User != nil
}

// UserID returns the id of the signed-in user, or an empty string.
func (s Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// ActorName is the name printed as cashier on receipts.
func (s Session) ActorName() string {
	if s.User == nil {
		return ""
	}
	if s.User.Name != "" {
		return s.User.Name
	}
	return s.User.Email
}

// Authorize checks that the session may act with one of roles.
// Admins pass every check.
func Authorize(s Session, roles ...models.Role) error {
	if !s.Authenticated() {
		return ErrUnauthenticated
	}
	if s.User.Role == models.RoleAdmin || len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if s.User.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
