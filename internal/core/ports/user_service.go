package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

// CreateUserInput is the administrative create payload.
type CreateUserInput struct {
	Name     string
	Email    string
	Photo    string
	Role     domain.Role
	Password string
}

// UpdateUserInput is the administrative partial update. Password, when set,
// has already been confirmed by the caller.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Photo    *string
	Role     *domain.Role
	Password *string
}

// UserService covers account management beyond authentication.
type UserService interface {
	UpdateMe(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.User, error)
	DeleteMe(ctx context.Context, userID string) error
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, userID string, in UpdateUserInput) (*domain.User, error)
}
