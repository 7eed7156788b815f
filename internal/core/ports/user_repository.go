package ports

import (
	"context"
	"time"

	"github.com/natours/booking-api/internal/core/domain"
)

// UserRepository persists identities. Every finder skips inactive users.
type UserRepository interface {
	Repository[domain.User]
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByResetToken(ctx context.Context, hashedToken string) (*domain.User, error)
	SetResetToken(ctx context.Context, id string, hashedToken string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	// SetPassword stores a new hash, records changedAt and clears any reset token.
	SetPassword(ctx context.Context, id string, hash string, changedAt time.Time) error
}
