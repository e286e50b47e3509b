package authsdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// refreshBuffer is how long before the access token's expiry a Session starts
// refreshing it.
const refreshBuffer = 30 * time.Second

// ErrNoRefreshToken is returned when the access token has expired and the
// session holds no refresh token to renew it with.
var ErrNoRefreshToken = errors.New("authsdk: access token expired and no refresh token available")

// Session represents an authenticated session with automatic token refresh.
// All Session methods automatically handle token expiration and refresh when needed.
type Session struct {
	client *SDKClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	user         *User
}

// newSession creates a new authenticated session from a session response.
func newSession(client *SDKClient, resp *SessionResponse) *Session {
	user := resp.User
	return &Session{
		client:       client,
		accessToken:  resp.AccessToken,
		refreshToken: resp.RefreshToken,
		expiresAt:    expiryFromNow(resp.ExpiresIn),
		user:         &user,
	}
}

func expiryFromNow(expiresIn int) time.Time {
	return time.Now().Add(time.Duration(expiresIn)*time.Second - refreshBuffer)
}

// getValidToken returns a valid access token, automatically refreshing if expired.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	if time.Now().Before(s.expiresAt) {
		token := s.accessToken
		s.mu.RUnlock()
		return token, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited for the lock.
	if time.Now().Before(s.expiresAt) {
		return s.accessToken, nil
	}

	if err := s.refreshLocked(ctx); err != nil {
		return "", err
	}
	return s.accessToken, nil
}

// refreshLocked rotates the token pair. s.mu must be held for writing.
func (s *Session) refreshLocked(ctx context.Context) error {
	if s.refreshToken == "" {
		return ErrNoRefreshToken
	}

	resp, err := s.client.Refresh(ctx, s.refreshToken)
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}

	user := resp.User
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.expiresAt = expiryFromNow(resp.ExpiresIn)
	s.user = &user
	return nil
}

// Refresh rotates the token pair immediately, regardless of expiry.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// AccessToken returns the current access token without checking expiration.
// For most use cases, prefer using the Session methods which handle refresh automatically.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns the user record from the last login or refresh, or nil for a
// session built with NewSessionFromTokens.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// ============================================================================
// Authenticated Operations
// ============================================================================

// Me returns the identity carried by the session's access token.
func (s *Session) Me(ctx context.Context) (*IdentityResponse, error) {
	var identity IdentityResponse
	if err := s.authCall(ctx, http.MethodGet, "/v1/auth/me", nil, &identity, http.StatusOK); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Profile returns the current stored user record.
func (s *Session) Profile(ctx context.Context) (*User, error) {
	var user User
	if err := s.authCall(ctx, http.MethodGet, "/v1/auth/profile", nil, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the account password. The server invalidates the
// refresh token as a side effect, so the session forgets it too. The access
// token stays usable until it expires.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	body := ChangePasswordRequest{CurrentPassword: current, NewPassword: next}
	if err := s.authCall(ctx, http.MethodPost, "/v1/auth/password", body, nil, http.StatusNoContent); err != nil {
		return err
	}
	s.forgetRefreshToken()
	return nil
}

// Logout invalidates the session's refresh token on the server.
func (s *Session) Logout(ctx context.Context) error {
	var out LogoutResponse
	if err := s.authCall(ctx, http.MethodPost, "/v1/auth/logout", nil, &out, http.StatusOK); err != nil {
		return err
	}
	s.forgetRefreshToken()
	return nil
}

func (s *Session) forgetRefreshToken() {
	s.mu.Lock()
	s.refreshToken = ""
	s.mu.Unlock()
}
