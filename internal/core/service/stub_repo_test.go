package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/query"
)

// ---------------------------------------------------------------------------
// In-memory stub user repository (mirrors the Mongo repo's active filter)
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users     map[string]*domain.User
	setPwdErr error
	clears    int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func (r *stubUserRepo) lookup(id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.Errorf(domain.ErrValidation, "Invalid id: %s", id)
	}
	u, ok := r.users[oid.Hex()]
	if !ok || !u.Active {
		return nil, domain.Errorf(domain.ErrNotFound, "No user found with that ID")
	}
	return u, nil
}

func (r *stubUserRepo) Find(_ context.Context, _ query.Query) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.Errorf(domain.ErrValidation, "Duplicate field value. Please use another value!")
		}
	}
	c := cloneUser(user)
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	r.users[c.ID.Hex()] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByIDAndUpdate(_ context.Context, id string, changes domain.Changes) (*domain.User, error) {
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	for k, v := range changes {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "photo":
			u.Photo = v.(string)
		case "role":
			u.Role = v.(domain.Role)
		case "password":
			u.Password = v.(string)
		case "passwordChangedAt":
			t := v.(time.Time)
			u.PasswordChangedAt = &t
		case "active":
			u.Active = v.(bool)
		}
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIDAndDelete(_ context.Context, id string) (*domain.User, error) {
	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	delete(r.users, u.ID.Hex())
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email && u.Active {
			return cloneUser(u), nil
		}
	}
	return nil, domain.Errorf(domain.ErrNotFound, "No user found with that email")
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, hashed string) (*domain.User, error) {
	for _, u := range r.users {
		if u.PasswordResetToken == hashed && u.Active {
			return cloneUser(u), nil
		}
	}
	return nil, domain.Errorf(domain.ErrNotFound, "No user found with that token")
}

func (r *stubUserRepo) SetResetToken(_ context.Context, id, hashed string, expires time.Time) error {
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	u.PasswordResetToken = hashed
	u.PasswordResetExpires = &expires
	return nil
}

func (r *stubUserRepo) ClearResetToken(_ context.Context, id string) error {
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	r.clears++
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	return nil
}

func (r *stubUserRepo) SetPassword(_ context.Context, id, hash string, changedAt time.Time) error {
	if r.setPwdErr != nil {
		return r.setPwdErr
	}
	u, err := r.lookup(id)
	if err != nil {
		return err
	}
	u.Password = hash
	u.PasswordChangedAt = &changedAt
	u.PasswordResetToken = ""
	u.PasswordResetExpires = nil
	return nil
}

// byEmail returns the stored (uncloned) user for assertions.
func (r *stubUserRepo) byEmail(email string) *domain.User {
	for _, u := range r.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
