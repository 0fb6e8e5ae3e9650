package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodgram/internal/testutil"
	"github.com/Skotchmaster/foodgram/pkg/tokens"
)

func newAuth(f *fixture) *AuthService {
	return &AuthService{
		Repo:          f.repo,
		AccessSecret:  []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
		Events:        f.events,
	}
}

func TestAuthService_LoginIssuesPair(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	ctx := context.Background()

	user := testutil.NewUser(t, f.db, "admin")

	pair, err := svc.Login(ctx, user.Email, testutil.Password)
	require.NoError(t, err)

	claims, err := tokens.AccessClaimsFromToken(pair.AccessToken, svc.AccessSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(tokens.AccessTTL), pair.AccessExp, 5*time.Second)

	rc, err := tokens.RefreshClaimsFromToken(pair.RefreshToken, svc.RefreshSecret)
	require.NoError(t, err)
	stored, err := f.repo.FindRefreshByJTI(ctx, rc.ID)
	require.NoError(t, err)
	assert.False(t, stored.Revoked)

	assert.Equal(t, []string{"user_logged_in"}, f.events.types())
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	ctx := context.Background()

	user := testutil.NewUser(t, f.db, "user")

	tests := []struct {
		name, email, password string
	}{
		{name: "wrong password", email: user.Email, password: "nope"},
		{name: "unknown email", email: "ghost@example.com", password: testutil.Password},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestAuthService_RefreshRotates(t *testing.T) {
	f := newFixture(t)
	svc := newAuth(f)
	ctx := context.Background()

	user := testutil.NewUser(t, f.db, "user")
	first, err := svc.Login(ctx, user.Email, testutil.Password)
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "a rotated token cannot be reused")

	_, err = svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	require.NoError(t, svc.Logout(ctx, second.RefreshToken))
	_, err = svc.Refresh(ctx, second.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
