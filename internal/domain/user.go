package domain

import (
	"context"
	"time"
)

// User represents a signed-in user. Authentication is mocked: identity is
// derived from the literal login email, with no credential check.
// swagger:model User
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Admin     bool      `json:"admin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenIssuer issues session tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, admin bool, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// UserService handles mock login.
type UserService interface {
	Login(ctx context.Context, email string) (token string, user *User, err error)
}
