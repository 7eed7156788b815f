// Package query turns list-endpoint query strings into a storage-neutral
// description of filters, ordering, projection and pagination.
//
//	GET /tours?difficulty=easy&price[lt]=1500&sort=-price,name&fields=name,price&page=2&limit=10
//
// Only fields declared in a Schema are honoured; anything else is ignored.
package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/natours/booking-api/internal/core/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 100
	DefaultSort  = "-createdAt"
)

// Kind describes how a raw query-string value is coerced.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	Time
	// Ref is a document reference; values stay strings and are converted by
	// the storage layer.
	Ref
)

// Op is a comparison operator.
type Op string

const (
	Eq  Op = "eq"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
)

var operators = map[string]Op{"gt": Gt, "gte": Gte, "lt": Lt, "lte": Lte}

// reserved keys never become filters.
var reserved = map[string]struct{}{"page": {}, "sort": {}, "limit": {}, "fields": {}}

// Schema lists the fields clients may filter, sort and project on.
type Schema map[string]Kind

// Condition is a single filter predicate. Kind tells the storage layer how
// Value was coerced.
type Condition struct {
	Field string
	Op    Op
	Value any
	Kind  Kind
}

// SortKey orders results by one field.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is a parsed list request.
type Query struct {
	Conditions []Condition
	Sort       []SortKey
	// Include and Exclude are mutually exclusive projections; Include wins.
	Include []string
	Exclude []string
	Page    int
	Limit   int
}

// Skip is the number of documents before the requested page.
func (q Query) Skip() int {
	return (q.Page - 1) * q.Limit
}

// Where returns a copy of q with extra conditions appended.
func (q Query) Where(conds ...Condition) Query {
	out := q
	out.Conditions = append(append([]Condition(nil), q.Conditions...), conds...)
	return out
}

// Parse builds a Query from url values. Unknown fields, unknown operators and
// unknown sort/projection fields are dropped. A value that cannot be coerced
// to its field's kind is a validation error.
func Parse(values url.Values, schema Schema) (Query, error) {
	q := Query{Page: DefaultPage, Limit: DefaultLimit}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		if _, ok := reserved[key]; ok {
			continue
		}
		field, op, ok := splitKey(key)
		if !ok {
			continue
		}
		kind, known := schema[field]
		if !known {
			continue
		}
		v, err := coerce(kind, vals[0])
		if err != nil {
			return Query{}, domain.Errorf(domain.ErrValidation, "Invalid value for %s: %s", field, vals[0])
		}
		q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: v, Kind: kind})
	}

	sortSpec := values.Get("sort")
	if sortSpec == "" {
		sortSpec = DefaultSort
	}
	q.Sort = parseSort(sortSpec, schema)

	q.Include, q.Exclude = parseFields(values.Get("fields"), schema)

	if l, err := strconv.Atoi(values.Get("limit")); err == nil && l > 0 {
		q.Limit = min(l, MaxLimit)
	}
	if p, err := strconv.Atoi(values.Get("page")); err == nil && p > 0 {
		// Skip must not overflow.
		if p-1 > math.MaxInt/q.Limit {
			return Query{}, domain.Errorf(domain.ErrValidation, "Invalid page: %d", p)
		}
		q.Page = p
	}
	return q, nil
}

// splitKey separates "price[gte]" into ("price", Gte).
func splitKey(key string) (string, Op, bool) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, Eq, true
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", false
	}
	op, ok := operators[key[open+1:len(key)-1]]
	if !ok {
		return "", "", false
	}
	return key[:open], op, true
}

func coerce(kind Kind, raw string) (any, error) {
	switch kind {
	case Number:
		return strconv.ParseFloat(raw, 64)
	case Bool:
		return strconv.ParseBool(raw)
	case Time:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, raw)
	case String, Ref:
		return raw, nil
	default:
		return nil, fmt.Errorf("unknown kind %d", kind)
	}
}

func parseSort(spec string, schema Schema) []SortKey {
	var keys []SortKey
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		if _, ok := schema[name]; !ok {
			continue
		}
		keys = append(keys, SortKey{Field: name, Desc: desc})
	}
	return keys
}

func parseFields(spec string, schema Schema) (include, exclude []string) {
	if spec == "" {
		return nil, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		name := strings.TrimPrefix(part, "-")
		if _, ok := schema[name]; !ok {
			continue
		}
		if strings.HasPrefix(part, "-") {
			exclude = append(exclude, name)
		} else {
			include = append(include, name)
		}
	}
	if len(include) > 0 {
		return include, nil
	}
	return nil, exclude
}
