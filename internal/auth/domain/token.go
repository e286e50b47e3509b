package domain

import "time"

// TokenPair is a freshly issued access and refresh token. Only a hash of the
// refresh half is ever persisted.
type TokenPair struct {
	AccessToken  string
	RefreshToken string

	// AccessExpiresIn is the access token lifetime.
	AccessExpiresIn time.Duration
	// RefreshExpiresAt is when the refresh token stops verifying.
	RefreshExpiresAt time.Time
}

// Session is the result of register, login and refresh.
type Session struct {
	User   UserView
	Tokens TokenPair
}
