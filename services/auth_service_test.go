package services

import (
	"context"
	"modfy_server/lib"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	sm, _ := newTestServices(t)
	ctx := context.Background()

	user := seedUser(t, sm, "  Nimal@Example.com ")
	assert.Equal(t, "nimal@example.com", user.Email)
	assert.Equal(t, tables.RoleCustomer, user.Role)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	got, err := sm.AuthService.Authenticate(ctx, "NIMAL@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = sm.AuthService.Authenticate(ctx, "nimal@example.com", "wrong-password")
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)

	_, err = sm.AuthService.Authenticate(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	sm, _ := newTestServices(t)
	seedUser(t, sm, "dup@example.com")

	_, err := sm.AuthService.Register(context.Background(), &structs.SignupRequest{
		Email:     "DUP@example.com",
		Password:  "another-pass",
		FirstName: "Other",
		LastName:  "Person",
	})
	assert.ErrorIs(t, err, lib.ErrConflict)
}

func TestVerifyEmail(t *testing.T) {
	sm, _ := newTestServices(t)
	ctx := context.Background()
	user := seedUser(t, sm, "verify@example.com")

	link, err := sm.AuthService.VerificationLink(user)
	require.NoError(t, err)
	assert.Contains(t, link, "http://api.test/api/auth/verify-email?token=")

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	token := parsed.Query().Get("token")

	verified, err := sm.AuthService.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)

	again, err := sm.AuthService.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, again.IsEmailVerified)

	_, err = sm.AuthService.VerifyEmail(ctx, "not-a-token")
	assert.ErrorIs(t, err, lib.ErrInvalidToken)
}

func TestVerifyEmailRejectsChangedAddress(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	user := seedUser(t, sm, "before@example.com")

	link, err := sm.AuthService.VerificationLink(user)
	require.NoError(t, err)
	parsed, err := url.Parse(link)
	require.NoError(t, err)

	user.Email = "after@example.com"
	require.NoError(t, store.UpdateUser(ctx, user))

	_, err = sm.AuthService.VerifyEmail(ctx, parsed.Query().Get("token"))
	assert.ErrorIs(t, err, lib.ErrInvalidToken)
}
