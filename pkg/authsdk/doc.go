/*
Package authsdk provides a client SDK for the branchauth session service.

# SDKClient vs Session

  - SDKClient: unauthenticated operations (register, login, refresh, health)
  - Session: authenticated operations with automatic token refresh

Typical use:

	client := authsdk.NewSDKClient("https://auth.example.com")

	health, err := client.GetReadiness(ctx)

	session, err := client.AuthenticateWithPassword(ctx, "a@example.com", "password")
	if errors.Is(err, authsdk.ErrInvalidCredentials) {
		// wrong email or password
	}

	me, err := session.Me(ctx)
	profile, err := session.Profile(ctx)
	err = session.Logout(ctx)

# Automatic Token Refresh

Every Session method obtains its access token through getValidToken, which
refreshes the pair 30 seconds before the access token expires. Refresh tokens
are single-use: the server rotates them on every refresh, and presenting a
spent token fails with ErrInvalidRefreshToken. A Session therefore must not be
copied between processes; share the *Session instead.

# Error Handling

Non-2xx responses are returned as *APIError. The predefined values
(ErrEmailTaken, ErrInvalidCredentials, ErrInvalidRefreshToken, ErrInvalidToken,
ErrValidation, ...) match with errors.Is on their code:

	_, err := client.Register(ctx, req)
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeValidation {
		for field, msg := range apiErr.Details {
			fmt.Printf("%s: %s\n", field, msg)
		}
	}

# Thread Safety

Sessions are safe for concurrent use. Concurrent callers that find the access
token expired perform a single refresh between them.
*/
package authsdk
