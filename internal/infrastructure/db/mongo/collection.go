package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/query"
)

const msgDuplicate = "Duplicate field value. Please use another value!"

// insertable documents reset their server-owned fields before insert.
type insertable interface {
	PrepareInsert(at time.Time)
}

// Collection is a generic repository over one MongoDB collection. It
// implements ports.Repository[T].
type Collection[T any] struct {
	col   *mongo.Collection
	label string
	// base is ANDed into every read and write filter.
	base bson.M
	now  func() time.Time
}

// CollectionOption customises a Collection.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	base bson.M
}

// WithBaseFilter restricts every operation to documents matching filter.
func WithBaseFilter(filter bson.M) CollectionOption {
	return func(c *collectionConfig) { c.base = filter }
}

// NewCollection wraps col. label names the document kind in error messages.
func NewCollection[T any](col *mongo.Collection, label string, opts ...CollectionOption) *Collection[T] {
	var cfg collectionConfig
	for _, o := range opts {
		o(&cfg)
	}
	return &Collection[T]{col: col, label: label, base: cfg.base, now: time.Now}
}

func (c *Collection[T]) Find(ctx context.Context, q query.Query) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := buildFilter(q.Conditions)
	if err != nil {
		return nil, err
	}

	cur, err := c.col.Find(ctx, and(c.base, filter), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", c.label, err)
	}
	defer cur.Close(ctx)

	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.label, err)
	}
	return docs, nil
}

func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return c.findOne(ctx, bson.M{"_id": oid}, c.notFound())
}

// Create inserts doc and reads it back so defaults and the generated id are
// reflected in the result.
func (c *Collection[T]) Create(ctx context.Context, doc *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if d, ok := any(doc).(insertable); ok {
		d.PrepareInsert(c.now().UTC())
	}

	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, c.writeErr("insert", err)
	}

	var created T
	if err := c.col.FindOne(ctx, bson.M{"_id": res.InsertedID}).Decode(&created); err != nil {
		return nil, fmt.Errorf("read back %s: %w", c.label, err)
	}
	return &created, nil
}

func (c *Collection[T]) FindByIDAndUpdate(ctx context.Context, id string, changes domain.Changes) (*T, error) {
	if len(changes) == 0 {
		return c.FindByID(ctx, id)
	}
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated T
	err = c.col.FindOneAndUpdate(ctx,
		and(c.base, bson.M{"_id": oid}),
		bson.M{"$set": bson.M(changes)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		return nil, c.writeErr("update", err)
	}
	return &updated, nil
}

func (c *Collection[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var deleted T
	if err := c.col.FindOneAndDelete(ctx, and(c.base, bson.M{"_id": oid})).Decode(&deleted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, c.notFound()
		}
		return nil, fmt.Errorf("delete %s: %w", c.label, err)
	}
	return &deleted, nil
}

// findOne returns the first document matching filter, or missing when there
// is none.
func (c *Collection[T]) findOne(ctx context.Context, filter bson.M, missing error) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc T
	if err := c.col.FindOne(ctx, and(c.base, filter)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, missing
		}
		return nil, fmt.Errorf("find %s: %w", c.label, err)
	}
	return &doc, nil
}

// updateOne applies update to the document with the given id.
func (c *Collection[T]) updateOne(ctx context.Context, id string, update bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := c.col.UpdateOne(ctx, and(c.base, bson.M{"_id": oid}), update)
	if err != nil {
		return c.writeErr("update", err)
	}
	if res.MatchedCount == 0 {
		return c.notFound()
	}
	return nil
}

func (c *Collection[T]) notFound() error {
	return domain.Errorf(domain.ErrNotFound, "No %s found with that ID", c.label)
}

func (c *Collection[T]) writeErr(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return domain.Errorf(domain.ErrValidation, msgDuplicate)
	}
	return fmt.Errorf("%s %s: %w", op, c.label, err)
}
