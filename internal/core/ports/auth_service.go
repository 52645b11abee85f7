package ports

import "context"

// LoginResult carries the issued token plus the display fields the UI
// needs immediately after login.
type LoginResult struct {
	Token string
	Role  string
	Name  string
}

// AuthService authenticates identities by email or roll number.
type AuthService interface {
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
}
