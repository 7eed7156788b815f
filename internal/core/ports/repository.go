package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/query"
)

// Repository is the persistence contract behind the generic CRUD handlers.
// Lookups by id return an error wrapping domain.ErrNotFound when the
// document does not exist and domain.ErrValidation when the id is malformed.
type Repository[T any] interface {
	Find(ctx context.Context, q query.Query) ([]T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, doc *T) (*T, error)
	FindByIDAndUpdate(ctx context.Context, id string, changes domain.Changes) (*T, error)
	FindByIDAndDelete(ctx context.Context, id string) (*T, error)
}

// TourRepository adds the tour aggregations to the generic contract.
type TourRepository interface {
	Repository[domain.Tour]
	Stats(ctx context.Context, minRating float64) ([]domain.DifficultyStats, error)
	MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlan, error)
}
