package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthMissing            = errors.New("authentication required")
	ErrTokenInvalid           = errors.New("token is invalid or expired")
	ErrInvalidOAuthCredential = errors.New("invalid oauth credential")
	ErrOAuthStateInvalid      = errors.New("oauth state is invalid or expired")
)

type User struct {
	ID           string
	Email        string
	PasswordHash *string // nil for accounts created through Google
	Name         *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with email + password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Identity is the verified caller of a request, resolved from a bearer token.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// OAuthProfile is what an identity provider asserts about a person.
type OAuthProfile struct {
	Provider string
	Subject  string
	Email    string
	Name     string
}

// OAuthState correlates a browser leaving for the provider with the callback
// that brings it back. Only the hash of the state value is persisted.
type OAuthState struct {
	StateHash    string
	CodeVerifier string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}
