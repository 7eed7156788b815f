package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/natours/booking-api/internal/core/domain"
)

const (
	toursCollection   = "tours"
	reviewsCollection = "reviews"
)

// TourRepository implements ports.TourRepository.
type TourRepository struct {
	*Collection[domain.Tour]
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{Collection: NewCollection[domain.Tour](db.Collection(toursCollection), "tour")}
}

// NewReviewRepository returns the review collection; reviews need nothing
// beyond the generic operations.
func NewReviewRepository(db *mongo.Database) *Collection[domain.Review] {
	return NewCollection[domain.Review](db.Collection(reviewsCollection), "review")
}

// Stats groups tours rated at least minRating by difficulty.
func (r *TourRepository) Stats(ctx context.Context, minRating float64) ([]domain.DifficultyStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"ratingsAverage": bson.M{"$gte": minRating}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	out := make([]domain.DifficultyStats, 0)
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("tour stats: %w", err)
	}
	return out, nil
}

// MonthlyPlan counts tour starts per month of year.
func (r *TourRepository) MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlan, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{"startDates": bson.M{"$gte": from, "$lt": to}}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "numTourStarts", Value: -1}, {Key: "month", Value: 1}}}},
		{{Key: "$limit", Value: 12}},
	}

	out := make([]domain.MonthlyPlan, 0)
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, fmt.Errorf("monthly plan: %w", err)
	}
	return out, nil
}

func (r *TourRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}
