package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	svc := NewAuthService(env.users, "secret", time.Hour, env.clock.Now)

	user, token, err := svc.Register(ctx, " alice ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "correct horse", user.PasswordHash)
	assert.NotEmpty(t, token)

	authed, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, _, err = svc.Register(ctx, "alice", "another password")
	require.ErrorIs(t, err, ErrUsernameTaken)

	loggedIn, loginToken, err := svc.Login(ctx, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, loginToken)

	_, _, err = svc.Login(ctx, "alice", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	svc := NewAuthService(env.users, "secret", time.Hour, env.clock.Now)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "short_username", username: "al", password: "long enough"},
		{name: "short_password", username: "alice", password: "short"},
		{name: "blank_username", username: "   ", password: "long enough"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.username, tt.password)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAuthService_AuthenticateRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, tuesday)
	svc := NewAuthService(env.users, "secret", time.Hour, env.clock.Now)

	_, token, err := svc.Register(ctx, "alice", "correct horse")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not.a.token")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("other_secret", func(t *testing.T) {
		other := NewAuthService(env.users, "different", time.Hour, env.clock.Now)
		_, err := other.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewAuthService(env.users, "secret", time.Hour, func() time.Time { return tuesday.Add(2 * time.Hour) })
		_, err := later.Authenticate(ctx, token)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown_user", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "999",
			ExpiresAt: jwt.NewNumericDate(tuesday.Add(time.Hour)),
		}).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, forged)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("none_algorithm", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Authenticate(ctx, unsigned)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
