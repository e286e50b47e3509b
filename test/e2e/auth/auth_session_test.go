package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/branchauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginRefreshLogout tests the complete flow:
// 1. Register a user
// 2. Login with email and password
// 3. Refresh the token and verify rotation
// 4. Replay the spent refresh token and verify it is rejected
// 5. Logout and verify the current refresh token stops working
func TestRegisterLoginRefreshLogout(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()

	registered := registerUser(t, client)
	require.Equal(t, userEmail, registered.User.Email)
	require.Equal(t, "north", registered.User.Branch)

	session, err := client.AuthenticateWithPassword(ctx, userEmail, userPassword)
	require.NoError(t, err)
	oldAccessToken := session.AccessToken()
	oldRefreshToken := session.RefreshToken()

	// Login replaced the registration session.
	_, err = client.Refresh(ctx, registered.RefreshToken)
	require.ErrorIs(t, err, authsdk.ErrInvalidRefreshToken)

	require.NoError(t, session.Refresh(ctx))
	require.NotEqual(t, oldAccessToken, session.AccessToken(), "Access token should be rotated")
	require.NotEqual(t, oldRefreshToken, session.RefreshToken(), "Refresh token should be rotated")

	_, err = client.Refresh(ctx, oldRefreshToken)
	require.ErrorIs(t, err, authsdk.ErrInvalidRefreshToken, "Spent refresh token must be rejected")

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, me.ID)
	require.Equal(t, "cashier", me.Role)

	profile, err := session.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Alice", *profile.DisplayName)

	current := session.RefreshToken()
	require.NoError(t, session.Logout(ctx))

	_, err = client.Refresh(ctx, current)
	require.ErrorIs(t, err, authsdk.ErrInvalidRefreshToken, "Logout must invalidate the refresh token")
}

// TestDuplicateRegistration verifies that an email can only be registered once.
func TestDuplicateRegistration(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerUser(t, client)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Branch:   "south",
		Email:    userEmail,
		Role:     "manager",
		Password: "Another123!",
	})
	require.ErrorIs(t, err, authsdk.ErrEmailTaken)
}

// TestChangePassword verifies the password change flow ends the refresh session.
func TestChangePassword(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	ctx := t.Context()
	registerUser(t, client)

	session, err := client.AuthenticateWithPassword(ctx, userEmail, userPassword)
	require.NoError(t, err)
	refreshToken := session.RefreshToken()

	require.NoError(t, session.ChangePassword(ctx, userPassword, "Changed123!pass"))

	_, err = client.Refresh(ctx, refreshToken)
	require.ErrorIs(t, err, authsdk.ErrInvalidRefreshToken)

	_, err = client.AuthenticateWithPassword(ctx, userEmail, userPassword)
	require.ErrorIs(t, err, authsdk.ErrInvalidCredentials)

	_, err = client.AuthenticateWithPassword(ctx, userEmail, "Changed123!pass")
	require.NoError(t, err)
}
