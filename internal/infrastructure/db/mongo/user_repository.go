package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/natours/booking-api/internal/core/domain"
)

const usersCollection = "users"

// activeOnly hides deactivated accounts. Documents without the field count
// as active.
var activeOnly = bson.M{"active": bson.M{"$ne": false}}

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	*Collection[domain.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Collection: NewCollection[domain.User](db.Collection(usersCollection), "user", WithBaseFilter(activeOnly)),
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email},
		domain.Errorf(domain.ErrNotFound, "No user found with that email"))
}

func (r *UserRepository) FindByResetToken(ctx context.Context, hashedToken string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"passwordResetToken": hashedToken},
		domain.Errorf(domain.ErrNotFound, "No user found with that token"))
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, hashedToken string, expires time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"passwordResetToken":   hashedToken,
		"passwordResetExpires": expires.UTC(),
	}})
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{"$unset": resetFields()})
}

func (r *UserRepository) SetPassword(ctx context.Context, id, hash string, changedAt time.Time) error {
	return r.updateOne(ctx, id, bson.M{
		"$set": bson.M{
			"password":          hash,
			"passwordChangedAt": changedAt.UTC(),
		},
		"$unset": resetFields(),
	})
}

func resetFields() bson.M {
	return bson.M{"passwordResetToken": "", "passwordResetExpires": ""}
}
