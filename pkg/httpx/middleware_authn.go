package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/branchauth/pkg/jwtx"
	"github.com/aussiebroadwan/branchauth/pkg/slogx"
)

// Authenticator resolves a raw bearer token into an identity.
type Authenticator func(ctx context.Context, token string) (jwtx.Identity, error)

// IdentityHandlerFunc is a handler that receives the caller's verified
// identity as an argument instead of digging it out of the request context.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id jwtx.Identity)

// RequireBearer verifies the Authorization header once per request and hands
// the resulting identity to next. Requests without a valid token, or whose
// token authn rejects with jwtx.ErrInvalidToken, get an RFC 6750
// invalid_token challenge. Any other authn error is a 500. The request logger
// handed to next carries the caller's user_id.
func RequireBearer(authn Authenticator, next IdentityHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := BearerToken(r)
		if !ok {
			writeBearerError(w, "missing bearer token")
			return
		}

		id, err := authn(r.Context(), raw)
		if err != nil {
			log := slogx.FromContext(r.Context())
			if !errors.Is(err, jwtx.ErrInvalidToken) {
				log.Error("bearer authentication errored", "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
				return
			}
			log.Warn("bearer authentication failed", "err", err)
			writeBearerError(w, "token verification failed")
			return
		}

		next(w, r.WithContext(slogx.With(r.Context(), "user_id", id.ID)), id)
	})
}

// BearerToken extracts the token from an "Authorization: Bearer" header. The
// scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "invalid_token", desc)
}
