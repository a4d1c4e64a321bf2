package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"smartmeet/internal/domain"
	"smartmeet/internal/ident"
)

// adminEmail is the one address granted the admin flag. Authentication is
// mocked: whoever presents this email is admin, no credential is checked.
const adminEmail = "admin@example.com"

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	tokenIssuer domain.TokenIssuer
	tokenExpiry time.Duration
	now         func() time.Time

	mu      sync.Mutex
	byEmail map[string]*domain.User
}

// NewUserService creates the mock-auth UserService.
func NewUserService(tokenIssuer domain.TokenIssuer, tokenExpiry time.Duration) domain.UserService {
	return &userService{
		tokenIssuer: tokenIssuer,
		tokenExpiry: tokenExpiry,
		now:         time.Now,
		byEmail:     make(map[string]*domain.User),
	}
}

// Login derives a user from the literal email and issues a session token.
// Repeat logins with the same email reuse the same user ID so server-side
// session state (transcripts) survives re-login within a process lifetime.
func (s *userService) Login(ctx context.Context, email string) (string, *domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return "", nil, domain.NewValidationError("invalid email format")
	}

	s.mu.Lock()
	user, ok := s.byEmail[email]
	if !ok {
		name, _, _ := strings.Cut(email, "@")
		user = &domain.User{
			ID:        ident.New(),
			Email:     email,
			Name:      name,
			Admin:     email == adminEmail,
			CreatedAt: s.now(),
		}
		s.byEmail[email] = user
	}
	s.mu.Unlock()

	token, err := s.tokenIssuer.Issue(user.ID, user.Email, user.Admin, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	out := *user
	return token, &out, nil
}
