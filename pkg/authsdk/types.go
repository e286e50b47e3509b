package authsdk

import (
	"time"

	"github.com/aussiebroadwan/branchauth/pkg/httpx"
)

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the JSON body of every error response.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse = httpx.ErrorBody

// ============================================================================
// Request Types
// ============================================================================

// RegisterRequest is the body of POST /v1/auth/register.
type RegisterRequest struct {
	Branch      string  `json:"branch"`
	DisplayName *string `json:"displayName,omitempty"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Role        string  `json:"role"`
	Password    string  `json:"password"`
}

// LoginRequest is the body of POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest is the body of POST /v1/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ============================================================================
// Session Types
// ============================================================================

// User is the sanitized user record. It never carries the password digest
// or the stored refresh token hash.
type User struct {
	ID          string    `json:"id"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DisplayName *string   `json:"displayName,omitempty"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber,omitempty"`
	Role        string    `json:"role"`
}

// SessionResponse is returned by register, login and refresh.
type SessionResponse struct {
	User User `json:"user"`

	// AccessToken is the short-lived bearer token
	AccessToken string `json:"access_token"`

	// RefreshToken is single-use; every refresh returns a new one
	RefreshToken string `json:"refresh_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the access token lifetime in seconds
	ExpiresIn int `json:"expires_in"`
}

// IdentityResponse is the principal carried by an access token, returned by
// GET /v1/auth/me.
type IdentityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LogoutResponse is returned by POST /v1/auth/logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the user directory connection status
	Database string `json:"database"`
}
