package handler

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// NewReviewResource returns the review CRUD handlers.
func NewReviewResource(repo ports.Repository[domain.Review]) *Resource[domain.Review, domain.ReviewPatch] {
	return NewResource[domain.Review, domain.ReviewPatch]("review", "reviews", repo, reviewFields).
		BindWith(bindReview)
}

// reviewCreateRequest is what a client may send to create a review. The
// author is never read from the body.
type reviewCreateRequest struct {
	Review string `json:"review"`
	Rating int    `json:"rating"`
	Tour   string `json:"tour"`
}

// bindReview decodes a new review. The body tour is only read on routes
// without a :tourId path parameter.
func bindReview(c echo.Context) (*domain.Review, error) {
	var req reviewCreateRequest
	if err := c.Bind(&req); err != nil {
		return nil, err
	}

	r := &domain.Review{Review: req.Review, Rating: req.Rating}
	if c.Param("tourId") == "" && req.Tour != "" {
		tour, err := parseID(req.Tour)
		if err != nil {
			return nil, err
		}
		r.Tour = tour
	}
	return r, nil
}

// TourReviews scopes a review listing to the :tourId path parameter.
func TourReviews() ListOption {
	return ScopeParam("tour", "tourId")
}

// SetTourUserIDs fills the review's foreign keys. The author is always the
// authenticated identity; the tour comes from the :tourId path parameter when
// the route has one, otherwise from the body.
func SetTourUserIDs(c echo.Context, r *domain.Review) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	r.User = user.ID

	if raw := c.Param("tourId"); raw != "" {
		tour, err := parseID(raw)
		if err != nil {
			return err
		}
		r.Tour = tour
	}
	return nil
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, domain.Errorf(domain.ErrValidation, "Invalid id: %s", raw)
	}
	return id, nil
}
