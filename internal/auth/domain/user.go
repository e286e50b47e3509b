package domain

import "time"

type User struct {
	ID           string
	Email        string // unique, compared exactly as stored
	PasswordHash string // argon2id PHC string
	Role         string
	Branch       string
	DisplayName  *string
	PhoneNumber  *string

	// RefreshTokenHash is the digest of the single refresh token currently
	// valid for this user, nil when there is no active session.
	RefreshTokenHash *string
	// RefreshTokenExpiresAt is when the token behind RefreshTokenHash stops
	// verifying. Only housekeeping reads it.
	RefreshTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasSession reports whether a refresh token hash is on file.
func (u User) HasSession() bool {
	return u.RefreshTokenHash != nil && *u.RefreshTokenHash != ""
}

// UserView is the client-safe projection of a User. It never carries the
// password or refresh token hashes.
type UserView struct {
	ID          string    `json:"id"`
	Branch      string    `json:"branch"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DisplayName *string   `json:"displayName"`
	Email       string    `json:"email"`
	PhoneNumber *string   `json:"phoneNumber"`
	Role        string    `json:"role"`
}

// Sanitize projects u onto the fields safe to return to a client.
func (u User) Sanitize() UserView {
	return UserView{
		ID:          u.ID,
		Branch:      u.Branch,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
	}
}

// RegisterInput is everything needed to create an account.
type RegisterInput struct {
	Branch      string  `json:"branch"`
	DisplayName *string `json:"displayName,omitempty"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Role        string  `json:"role"`
	Password    string  `json:"password"`
}
