package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
)

func newAuthService(repo *fakeUserRepo) *AuthService {
	jwt := helpers.NewJWTManager("test-access", "test-refresh", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(repo, jwt, nil, nil, false)
}

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	u, pair, err := svc.Register(ctx, "Jane@Example.com", "secret123", "Jane")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, "secret123", u.Password, "password must be stored hashed")

	u2, pair2, err := svc.Login(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.NotEmpty(t, pair2.AccessToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	_, _, err := svc.Register(ctx, "jane@example.com", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, "JANE@example.com", "other-password", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, _, err := svc.Register(context.Background(), "jane@example.com", "abc", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	_, _, err := svc.Register(ctx, "jane@example.com", "secret123", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever1")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown email and wrong password must be indistinguishable")
}

func TestLoginRevokesPreviousSession(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newAuthService(repo)

	_, first, err := svc.Register(ctx, "jane@example.com", "secret123", "")
	require.NoError(t, err)

	// tokens embed second-resolution iat; a login in the same second would
	// mint a byte-identical refresh token
	time.Sleep(1100 * time.Millisecond)

	_, _, err = svc.Login(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)

	// the refresh token from before the second login is no longer honored
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	_, pair, err := svc.Register(ctx, "jane@example.com", "secret123", "")
	require.NoError(t, err)

	// tokens embed second-resolution iat; hold the rotation apart from login
	time.Sleep(1100 * time.Millisecond)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// rotate-on-use: the consumed token is dead
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// the fresh one works
	_, err = svc.Refresh(ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshGarbageToken(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	u, pair, err := svc.Register(ctx, "jane@example.com", "secret123", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, u.ID))
	require.NoError(t, svc.Logout(ctx, u.ID), "second logout must also succeed")
	require.NoError(t, svc.Logout(ctx, 9999), "logout of unknown user must succeed")

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken, "logout revokes the refresh token")
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	u, _, err := svc.Register(ctx, "jane@example.com", "secret123", "Jane")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, "  Jane Doe  ")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", updated.Name)

	_, err = svc.UpdateProfile(ctx, u.ID, "   ")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newAuthService(newFakeUserRepo())

	u, _, err := svc.Register(ctx, "jane@example.com", "secret123", "")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "wrong-current", "newsecret1")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	err = svc.ChangePassword(ctx, u.ID, "secret123", "short")
	require.ErrorAs(t, err, &verr)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, "secret123", "newsecret1"))

	_, _, err = svc.Login(ctx, "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "jane@example.com", "newsecret1")
	assert.NoError(t, err)
}
