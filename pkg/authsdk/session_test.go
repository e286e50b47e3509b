package authsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeGateway issues numbered tokens and accepts each refresh token once.
type fakeGateway struct {
	mu        sync.Mutex
	issued    int
	live      map[string]bool
	access    map[string]bool
	refreshes atomic.Int32
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{live: map[string]bool{}, access: map[string]bool{}}
}

func (g *fakeGateway) session() SessionResponse {
	g.issued++
	n := string(rune('a' + g.issued))
	g.live["refresh-"+n] = true
	g.access["access-"+n] = true
	return SessionResponse{
		User:         User{ID: "user-1", Email: "a@x.com", Role: "cashier"},
		AccessToken:  "access-" + n,
		RefreshToken: "refresh-" + n,
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch r.URL.Path {
	case "/v1/auth/login":
		var req LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "correct-horse" {
			ErrInvalidCredentials.WriteError(w)
			return
		}
		writeJSON(w, http.StatusOK, g.session())
	case "/v1/auth/register":
		NewValidationError(map[string]string{"email": "must be a valid email address"}).WriteError(w)
	case "/v1/auth/refresh":
		g.refreshes.Add(1)
		var req RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !g.live[req.RefreshToken] {
			ErrInvalidRefreshToken.WriteError(w)
			return
		}
		delete(g.live, req.RefreshToken)
		writeJSON(w, http.StatusOK, g.session())
	case "/v1/auth/me":
		token := r.Header.Get("Authorization")
		if len(token) < 7 || !g.access[token[7:]] {
			ErrInvalidToken.WriteError(w)
			return
		}
		writeJSON(w, http.StatusOK, IdentityResponse{ID: "user-1", Email: "a@x.com", Role: "cashier"})
	case "/v1/auth/logout":
		writeJSON(w, http.StatusOK, LogoutResponse{Success: true})
	case "/v1/auth/password":
		w.WriteHeader(http.StatusNoContent)
	case "/livez":
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: "test"})
	case "/readyz":
		// Answers 202 so callers expecting 200 see an unexpected status.
		writeJSON(w, http.StatusAccepted, HealthResponse{Status: "ok"})
	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T) (*SDKClient, *fakeGateway) {
	t.Helper()
	gw := newFakeGateway()
	srv := httptest.NewServer(gw)
	t.Cleanup(srv.Close)
	return NewSDKClient(srv.URL + "/"), gw
}

func TestAuthenticateWithPassword(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)
	ctx := context.Background()

	session, err := client.AuthenticateWithPassword(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "access-b", session.AccessToken())
	require.Equal(t, "refresh-b", session.RefreshToken())
	require.Equal(t, "a@x.com", session.User().Email)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "user-1", me.ID)
}

func TestAuthenticateWithPassword_InvalidCredentials(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	_, err := client.AuthenticateWithPassword(context.Background(), "a@x.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotErrorIs(t, err, ErrInvalidRefreshToken)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestRegister_ValidationDetails(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	_, err := client.Register(context.Background(), RegisterRequest{Email: "nope"})
	require.ErrorIs(t, err, ErrValidation)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "must be a valid email address", apiErr.Details["email"])
}

func TestSession_RefreshesExpiredAccessToken(t *testing.T) {
	t.Parallel()
	client, gw := newTestClient(t)
	ctx := context.Background()

	session, err := client.AuthenticateWithPassword(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)

	session.mu.Lock()
	session.expiresAt = time.Now().Add(-time.Second)
	session.mu.Unlock()

	errs := make(chan error, 8)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := session.Me(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, int32(1), gw.refreshes.Load(), "concurrent callers must share one refresh")
	require.Equal(t, "refresh-c", session.RefreshToken())
}

func TestSession_RefreshWithSpentTokenFails(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)
	ctx := context.Background()

	resp, err := client.Login(ctx, LoginRequest{Email: "a@x.com", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = client.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)

	_, err = client.AuthenticateWithRefreshToken(ctx, resp.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestSession_LogoutForgetsRefreshToken(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)
	ctx := context.Background()

	session := client.NewSessionFromTokens("access-z", "refresh-z", 900)
	require.Nil(t, session.User())
	require.NoError(t, session.Logout(ctx))
	require.Empty(t, session.RefreshToken())

	session.mu.Lock()
	session.expiresAt = time.Time{}
	session.mu.Unlock()

	_, err := session.Me(ctx)
	require.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestSession_ChangePassword(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	session := client.NewSessionFromTokens("access-z", "refresh-z", 900)
	require.NoError(t, session.ChangePassword(context.Background(), "old-password", "new-password"))
	require.Empty(t, session.RefreshToken())
}

func TestAPIError_WriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	ErrInvalidToken.WriteError(rec)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, ErrorCodeInvalidToken, body.Error)
}

func TestParseErrorResponse_Fallback(t *testing.T) {
	t.Parallel()

	err := parseErrorResponse(&http.Response{StatusCode: http.StatusBadGateway}, []byte("<html>"))
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)

	require.NoError(t, parseErrorResponse(&http.Response{StatusCode: http.StatusOK}, nil))
}

func TestHealthCalls(t *testing.T) {
	t.Parallel()
	client, _ := newTestClient(t)

	health, err := client.GetLiveness(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "test", health.Version)

	_, err = client.GetReadiness(context.Background())
	require.ErrorContains(t, err, "unexpected status 202")

	var apiErr *APIError
	require.False(t, errors.As(err, &apiErr))
}
