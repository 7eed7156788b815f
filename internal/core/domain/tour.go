package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tour is a bookable tour.
type Tour struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name" validate:"required,min=10,max=40"`
	Duration        int                `json:"duration" bson:"duration" validate:"required,gt=0"`
	MaxGroupSize    int                `json:"maxGroupSize" bson:"maxGroupSize" validate:"required,gt=0"`
	Difficulty      string             `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64            `json:"ratingsAverage" bson:"ratingsAverage" validate:"omitempty,min=1,max=5"`
	RatingsQuantity int                `json:"ratingsQuantity" bson:"ratingsQuantity" validate:"min=0"`
	Price           float64            `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64            `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty" validate:"omitempty,gte=0,ltfield=Price"`
	Summary         string             `json:"summary" bson:"summary" validate:"required"`
	Description     string             `json:"description,omitempty" bson:"description,omitempty"`
	StartDates      []time.Time        `json:"startDates,omitempty" bson:"startDates,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}

// PrepareInsert resets the server-owned fields of a new tour and applies the
// default rating.
func (t *Tour) PrepareInsert(at time.Time) {
	t.ID = primitive.NilObjectID
	t.CreatedAt = at
	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
}

// DifficultyStats is one row of the tour statistics aggregation.
type DifficultyStats struct {
	Difficulty string  `json:"difficulty" bson:"_id"`
	NumTours   int     `json:"numTours" bson:"numTours"`
	NumRatings int     `json:"numRatings" bson:"numRatings"`
	AvgRating  float64 `json:"avgRating" bson:"avgRating"`
	AvgPrice   float64 `json:"avgPrice" bson:"avgPrice"`
	MinPrice   float64 `json:"minPrice" bson:"minPrice"`
	MaxPrice   float64 `json:"maxPrice" bson:"maxPrice"`
}

// MonthlyPlan lists the tours starting in a given month.
type MonthlyPlan struct {
	Month         int      `json:"month" bson:"month"`
	NumTourStarts int      `json:"numTourStarts" bson:"numTourStarts"`
	Tours         []string `json:"tours" bson:"tours"`
}
