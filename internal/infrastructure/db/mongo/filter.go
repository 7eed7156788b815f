package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/query"
)

var mongoOps = map[query.Op]string{
	query.Eq:  "$eq",
	query.Gt:  "$gt",
	query.Gte: "$gte",
	query.Lt:  "$lt",
	query.Lte: "$lte",
}

// buildFilter translates query conditions into a bson filter. Several
// conditions on one field are merged into a single operator document; a lone
// equality stays a plain value.
func buildFilter(conds []query.Condition) (bson.M, error) {
	byField := map[string]bson.M{}
	for _, c := range conds {
		v := c.Value
		if c.Kind == query.Ref {
			oid, err := objectID(v)
			if err != nil {
				return nil, err
			}
			v = oid
		}
		ops, ok := byField[c.Field]
		if !ok {
			ops = bson.M{}
			byField[c.Field] = ops
		}
		ops[mongoOps[c.Op]] = v
	}

	filter := bson.M{}
	for field, ops := range byField {
		if eq, ok := ops["$eq"]; ok && len(ops) == 1 {
			filter[field] = eq
			continue
		}
		filter[field] = ops
	}
	return filter, nil
}

// findOptions maps ordering, projection and pagination onto the driver.
func findOptions(q query.Query) *options.FindOptions {
	opts := options.Find()

	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, k := range q.Sort {
			dir := 1
			if k.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: k.Field, Value: dir})
		}
		// _id keeps pages stable when sort keys tie.
		sort = append(sort, bson.E{Key: "_id", Value: 1})
		opts.SetSort(sort)
	}

	switch {
	case len(q.Include) > 0:
		proj := bson.D{}
		for _, f := range q.Include {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
		opts.SetProjection(proj)
	case len(q.Exclude) > 0:
		proj := bson.D{}
		for _, f := range q.Exclude {
			proj = append(proj, bson.E{Key: f, Value: 0})
		}
		opts.SetProjection(proj)
	}

	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if skip := q.Skip(); q.Page > 1 && skip > 0 {
		opts.SetSkip(int64(skip))
	}
	return opts
}

func objectID(v any) (primitive.ObjectID, error) {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id, nil
	case string:
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return primitive.NilObjectID, domain.Errorf(domain.ErrValidation, "Invalid id: %s", id)
		}
		return oid, nil
	default:
		return primitive.NilObjectID, domain.Errorf(domain.ErrValidation, "Invalid id: %v", v)
	}
}

// and combines a base filter with a request filter.
func and(base, filter bson.M) bson.M {
	if len(base) == 0 {
		return filter
	}
	out := make(bson.M, len(base)+len(filter))
	for k, v := range filter {
		out[k] = v
	}
	for k, v := range base {
		if _, clash := out[k]; clash {
			return bson.M{"$and": bson.A{base, filter}}
		}
		out[k] = v
	}
	return out
}
