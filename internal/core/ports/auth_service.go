package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

// SignupInput is the self-registration payload.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Photo    string
}

// ResetLink renders the URL mailed to a user for a plaintext reset token.
type ResetLink func(token string) string

// Authenticator resolves the identity behind a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthService covers session issuance and credential changes.
type AuthService interface {
	Authenticator
	Signup(ctx context.Context, in SignupInput) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	ForgotPassword(ctx context.Context, email string, link ResetLink) error
	ResetPassword(ctx context.Context, token, password string) (*domain.Session, error)
	UpdatePassword(ctx context.Context, userID, current, password string) (*domain.Session, error)
}
