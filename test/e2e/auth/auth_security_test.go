package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/branchauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestInvalidCredentials verifies that unknown emails and wrong passwords are
// rejected with the same error.
func TestInvalidCredentials(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerUser(t, client)

	_, wrongPassword := client.Login(t.Context(), authsdk.LoginRequest{Email: userEmail, Password: "wrong-password"})
	require.ErrorIs(t, wrongPassword, authsdk.ErrInvalidCredentials)

	_, unknownEmail := client.Login(t.Context(), authsdk.LoginRequest{Email: "nobody@branch.example", Password: userPassword})
	require.ErrorIs(t, unknownEmail, authsdk.ErrInvalidCredentials)

	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

// TestTokenKindsAreNotInterchangeable verifies that refresh tokens are not
// accepted as access tokens and vice versa.
func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	resp := registerUser(t, client)

	swapped := client.NewSessionFromTokens(resp.RefreshToken, "", 3600)
	_, err := swapped.Me(t.Context())
	require.ErrorIs(t, err, authsdk.ErrInvalidToken)

	_, err = client.Refresh(t.Context(), resp.AccessToken)
	require.ErrorIs(t, err, authsdk.ErrInvalidRefreshToken)
}

// TestInvalidAccessToken verifies that bearer endpoints reject garbage tokens.
func TestInvalidAccessToken(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	invalidSession := client.NewSessionFromTokens("invalid-token-12345", "", 3600)

	_, err := invalidSession.Profile(t.Context())
	require.ErrorIs(t, err, authsdk.ErrInvalidToken)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 401, apiErr.StatusCode)
}

// TestValidationErrors verifies field-level validation details are returned.
func TestValidationErrors(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{Email: "not-an-email", Password: "short"})
	require.ErrorIs(t, err, authsdk.ErrValidation)

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Contains(t, apiErr.Details, "email")
	require.Contains(t, apiErr.Details, "password")
	require.Contains(t, apiErr.Details, "branch")
	require.Contains(t, apiErr.Details, "role")
}
