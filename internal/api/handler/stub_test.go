package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/booking-api/internal/api/reqctx"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/query"
)

// stubTourRepo is an in-memory ports.TourRepository.
type stubTourRepo struct {
	docs      map[string]domain.Tour
	lastQuery query.Query
	deletes   int
}

func newStubTourRepo() *stubTourRepo {
	return &stubTourRepo{docs: make(map[string]domain.Tour)}
}

func (r *stubTourRepo) add(t domain.Tour) domain.Tour {
	t.ID = primitive.NewObjectID()
	r.docs[t.ID.Hex()] = t
	return t
}

func (r *stubTourRepo) Find(_ context.Context, q query.Query) ([]domain.Tour, error) {
	r.lastQuery = q
	out := make([]domain.Tour, 0, len(r.docs))
	for _, t := range r.docs {
		out = append(out, t)
	}
	return out, nil
}

func (r *stubTourRepo) FindByID(_ context.Context, id string) (*domain.Tour, error) {
	t, ok := r.docs[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "No tour found with that ID")
	}
	return &t, nil
}

func (r *stubTourRepo) Create(_ context.Context, t *domain.Tour) (*domain.Tour, error) {
	created := r.add(*t)
	return &created, nil
}

func (r *stubTourRepo) FindByIDAndUpdate(_ context.Context, id string, changes domain.Changes) (*domain.Tour, error) {
	t, ok := r.docs[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "No tour found with that ID")
	}
	for k, v := range changes {
		switch k {
		case "name":
			t.Name = v.(string)
		case "price":
			t.Price = v.(float64)
		case "difficulty":
			t.Difficulty = v.(string)
		case "duration":
			t.Duration = v.(int)
		}
	}
	r.docs[id] = t
	return &t, nil
}

func (r *stubTourRepo) FindByIDAndDelete(_ context.Context, id string) (*domain.Tour, error) {
	r.deletes++
	t, ok := r.docs[id]
	if !ok {
		return nil, domain.Errorf(domain.ErrNotFound, "No tour found with that ID")
	}
	delete(r.docs, id)
	return &t, nil
}

func (r *stubTourRepo) Stats(_ context.Context, minRating float64) ([]domain.DifficultyStats, error) {
	return []domain.DifficultyStats{{Difficulty: "EASY", NumTours: len(r.docs), AvgRating: minRating}}, nil
}

func (r *stubTourRepo) MonthlyPlan(_ context.Context, year int) ([]domain.MonthlyPlan, error) {
	return []domain.MonthlyPlan{{Month: 7, NumTourStarts: year % 10, Tours: []string{"The Forest Hiker"}}}, nil
}

// stubReviewRepo records what it is asked to create and list.
type stubReviewRepo struct {
	created   []domain.Review
	lastQuery query.Query
}

func (r *stubReviewRepo) Find(_ context.Context, q query.Query) ([]domain.Review, error) {
	r.lastQuery = q
	return r.created, nil
}

func (r *stubReviewRepo) FindByID(context.Context, string) (*domain.Review, error) {
	return nil, domain.Errorf(domain.ErrNotFound, "No review found with that ID")
}

func (r *stubReviewRepo) Create(_ context.Context, rev *domain.Review) (*domain.Review, error) {
	c := *rev
	c.ID = primitive.NewObjectID()
	r.created = append(r.created, c)
	return &c, nil
}

func (r *stubReviewRepo) FindByIDAndUpdate(context.Context, string, domain.Changes) (*domain.Review, error) {
	return nil, domain.Errorf(domain.ErrNotFound, "No review found with that ID")
}

func (r *stubReviewRepo) FindByIDAndDelete(context.Context, string) (*domain.Review, error) {
	return nil, domain.Errorf(domain.ErrNotFound, "No review found with that ID")
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req
}

func withUser(req *http.Request, u *domain.User) *http.Request {
	return req.WithContext(reqctx.WithIdentity(req.Context(), u))
}
