package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/query"
)

func TestBuildFilter(t *testing.T) {
	tourID := primitive.NewObjectID()

	filter, err := buildFilter([]query.Condition{
		{Field: "difficulty", Op: query.Eq, Value: "easy", Kind: query.String},
		{Field: "price", Op: query.Gte, Value: 500.0, Kind: query.Number},
		{Field: "price", Op: query.Lt, Value: 1500.0, Kind: query.Number},
		{Field: "tour", Op: query.Eq, Value: tourID.Hex(), Kind: query.Ref},
	})
	require.NoError(t, err)

	assert.Equal(t, bson.M{
		"difficulty": "easy",
		"price":      bson.M{"$gte": 500.0, "$lt": 1500.0},
		"tour":       tourID,
	}, filter)
}

func TestBuildFilter_EqualityWithRange(t *testing.T) {
	filter, err := buildFilter([]query.Condition{
		{Field: "duration", Op: query.Eq, Value: 5.0, Kind: query.Number},
		{Field: "duration", Op: query.Lte, Value: 9.0, Kind: query.Number},
	})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"duration": bson.M{"$eq": 5.0, "$lte": 9.0}}, filter)
}

func TestBuildFilter_InvalidRef(t *testing.T) {
	_, err := buildFilter([]query.Condition{{Field: "tour", Op: query.Eq, Value: "nope", Kind: query.Ref}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "Invalid id: nope", err.Error())
}

func TestFindOptions(t *testing.T) {
	opts := findOptions(query.Query{
		Sort:    []query.SortKey{{Field: "price", Desc: true}, {Field: "name"}},
		Include: []string{"name", "price"},
		Page:    3,
		Limit:   10,
	})

	assert.Equal(t, bson.D{{Key: "price", Value: -1}, {Key: "name", Value: 1}, {Key: "_id", Value: 1}}, opts.Sort)
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "price", Value: 1}}, opts.Projection)
	require.NotNil(t, opts.Limit)
	require.NotNil(t, opts.Skip)
	assert.EqualValues(t, 10, *opts.Limit)
	assert.EqualValues(t, 20, *opts.Skip)
}

func TestFindOptions_Exclude(t *testing.T) {
	opts := findOptions(query.Query{Exclude: []string{"description"}, Page: 1, Limit: 100})

	assert.Nil(t, opts.Sort)
	assert.Nil(t, opts.Skip)
	assert.Equal(t, bson.D{{Key: "description", Value: 0}}, opts.Projection)
}

func TestAnd(t *testing.T) {
	assert.Equal(t, bson.M{"a": 1}, and(nil, bson.M{"a": 1}))
	assert.Equal(t, bson.M{"a": 1, "active": true}, and(bson.M{"active": true}, bson.M{"a": 1}))

	clash := and(bson.M{"active": true}, bson.M{"active": false})
	assert.Equal(t, bson.M{"$and": bson.A{bson.M{"active": true}, bson.M{"active": false}}}, clash)
}
