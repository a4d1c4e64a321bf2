package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartmeet/internal/domain"
)

// fakeTokenIssuer implements domain.TokenIssuer for tests.
type fakeTokenIssuer struct {
	err       error
	lastAdmin bool
	lastEmail string
}

func (f *fakeTokenIssuer) Issue(userID, email string, admin bool, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.lastAdmin = admin
	f.lastEmail = email
	return "token-" + userID, nil
}

func TestUserLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("regular user", func(t *testing.T) {
		issuer := &fakeTokenIssuer{}
		svc := NewUserService(issuer, time.Hour)

		token, user, err := svc.Login(ctx, "priya@example.com")
		require.NoError(t, err)
		assert.Equal(t, "token-"+user.ID, token)
		assert.Equal(t, "priya@example.com", user.Email)
		assert.Equal(t, "priya", user.Name)
		assert.False(t, user.Admin)
		assert.False(t, issuer.lastAdmin)
	})

	t.Run("admin email gets the admin flag", func(t *testing.T) {
		issuer := &fakeTokenIssuer{}
		svc := NewUserService(issuer, time.Hour)

		_, user, err := svc.Login(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.True(t, user.Admin)
		assert.True(t, issuer.lastAdmin)
	})

	t.Run("email is normalized", func(t *testing.T) {
		issuer := &fakeTokenIssuer{}
		svc := NewUserService(issuer, time.Hour)

		_, user, err := svc.Login(ctx, "  Admin@Example.COM ")
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", user.Email)
		assert.True(t, user.Admin)
	})

	t.Run("repeat login reuses the user ID", func(t *testing.T) {
		svc := NewUserService(&fakeTokenIssuer{}, time.Hour)

		_, first, err := svc.Login(ctx, "priya@example.com")
		require.NoError(t, err)
		_, second, err := svc.Login(ctx, "priya@example.com")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("invalid email", func(t *testing.T) {
		svc := NewUserService(&fakeTokenIssuer{}, time.Hour)

		_, _, err := svc.Login(ctx, "not-an-email")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("issuer failure", func(t *testing.T) {
		svc := NewUserService(&fakeTokenIssuer{err: errors.New("sign failed")}, time.Hour)

		_, _, err := svc.Login(ctx, "priya@example.com")
		require.Error(t, err)
		assert.False(t, domain.IsValidation(err))
	})
}
