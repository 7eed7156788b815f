// Package reqctx carries the authenticated identity through a request's
// context.Context.
package reqctx

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

type identityKey struct{}

// WithIdentity returns a child context holding a copy of user. Later changes
// to *user are not visible through the context.
func WithIdentity(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, identityKey{}, *user)
}

// Identity returns a copy of the identity stored by WithIdentity.
func Identity(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(identityKey{}).(domain.User)
	if !ok {
		return nil, false
	}
	return &u, true
}
