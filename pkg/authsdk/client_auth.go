package authsdk

import (
	"context"
	"net/http"
)

// Register creates an account and returns its first session.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	return c.postSession(ctx, "/v1/auth/register", req, http.StatusCreated)
}

// Login exchanges email and password for a session.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	return c.postSession(ctx, "/v1/auth/login", req, http.StatusOK)
}

// Refresh redeems a refresh token for a rotated pair. Each refresh token is
// accepted once.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	return c.postSession(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, http.StatusOK)
}

func (c *SDKClient) postSession(ctx context.Context, path string, body any, want int) (*SessionResponse, error) {
	var session SessionResponse
	if err := c.call(ctx, http.MethodPost, path, "", body, &session, want); err != nil {
		return nil, err
	}
	return &session, nil
}
