package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/branchauth/internal/auth/domain"
	"github.com/aussiebroadwan/branchauth/internal/auth/service"
	"github.com/aussiebroadwan/branchauth/pkg/authsdk"
	"github.com/aussiebroadwan/branchauth/pkg/httpx"
	"github.com/aussiebroadwan/branchauth/pkg/jwtx"
	"github.com/aussiebroadwan/branchauth/pkg/slogx"
)

// SessionHandler serves the /v1/auth endpoints.
type SessionHandler struct {
	Sessions *service.SessionManager
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates an account and returns its first session. The email must not already be registered.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"New account"
//	@Success		201		{object}	authsdk.SessionResponse		"user, access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid_request or validation_error with details"
//	@Failure		409		{object}	authsdk.ErrorResponse		"email_taken"
//	@Failure		500		{object}	authsdk.ErrorResponse		"server_error"
//	@Router			/v1/auth/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	in := domain.RegisterInput{
		Branch:      req.Branch,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		Password:    req.Password,
	}
	if err := service.ValidateRegister(in); err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.Sessions.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse(session))
}

// HandleLogin godoc
//
//	@Summary		Login
//	@Description	Exchanges email and password for a new session. Any earlier refresh token for the account stops working.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.SessionResponse	"user, access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request or validation_error"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_credentials"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := service.ValidateLogin(req.Email, req.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

// HandleRefresh godoc
//
//	@Summary		Refresh
//	@Description	Exchanges a refresh token for a new token pair. Each refresh token is accepted once.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RefreshRequest	true	"Refresh token"
//	@Success		200		{object}	authsdk.SessionResponse	"user, access_token, refresh_token, token_type, expires_in"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request or validation_error"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_refresh_token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RefreshRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := service.ValidateRefresh(req.RefreshToken); err != nil {
		writeServiceError(w, r, err)
		return
	}

	session, err := h.Sessions.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(session))
}

// HandleLogout godoc
//
//	@Summary		Logout
//	@Description	Invalidates the caller's refresh token. Access tokens already issued remain valid until they expire.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.LogoutResponse	"success"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request, id jwtx.Identity) {
	if err := h.Sessions.Logout(r.Context(), id.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.LogoutResponse{Success: true})
}

// HandleMe godoc
//
//	@Summary		Current identity
//	@Description	Returns the identity carried by the access token.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.IdentityResponse	"id, email, role"
//	@Failure		401	{object}	authsdk.ErrorResponse		"invalid_token"
//	@Router			/v1/auth/me [get].
func (h *SessionHandler) HandleMe(w http.ResponseWriter, r *http.Request, id jwtx.Identity) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.IdentityResponse{
		ID:    id.ID,
		Email: id.Email,
		Role:  id.Role,
	})
}

// HandleProfile godoc
//
//	@Summary		Current user
//	@Description	Returns the stored record of the authenticated user, without secrets.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.User			"sanitized user"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token"
//	@Failure		500	{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/profile [get].
func (h *SessionHandler) HandleProfile(w http.ResponseWriter, r *http.Request, id jwtx.Identity) {
	view, err := h.Sessions.Me(r.Context(), id.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, userResponse(view))
}

// HandleChangePassword godoc
//
//	@Summary		Change password
//	@Description	Replaces the password after checking the current one. The refresh token is invalidated.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204
//	@Failure		400	{object}	authsdk.ErrorResponse	"invalid_request or validation_error"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token or invalid_credentials"
//	@Failure		500	{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/password [post].
func (h *SessionHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request, id jwtx.Identity) {
	var req authsdk.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if err := service.ValidateChangePassword(req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if err := h.Sessions.ChangePassword(r.Context(), id.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
		return false
	}
	return true
}

// writeServiceError maps SessionManager errors onto gateway responses.
// Anything unrecognised is logged and reported as server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		authsdk.NewValidationError(verr.Fields).WriteError(w)
	case errors.Is(err, service.ErrDuplicateEmail):
		authsdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		authsdk.ErrInvalidRefreshToken.WriteError(w)
	case errors.Is(err, service.ErrInvalidToken):
		authsdk.ErrInvalidToken.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}

func sessionResponse(s domain.Session) authsdk.SessionResponse {
	return authsdk.SessionResponse{
		User:         userResponse(s.User),
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.Tokens.AccessExpiresIn.Seconds()),
	}
}

func userResponse(v domain.UserView) authsdk.User {
	return authsdk.User{
		ID:          v.ID,
		Branch:      v.Branch,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		DisplayName: v.DisplayName,
		Email:       v.Email,
		PhoneNumber: v.PhoneNumber,
		Role:        v.Role,
	}
}
