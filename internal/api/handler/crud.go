package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
	"github.com/natours/booking-api/internal/core/query"
)

// Patch is a partial update decoded from a request body.
type Patch interface {
	Changes() domain.Changes
}

// Hook runs on a decoded document before it is validated and created.
type Hook[T any] func(c echo.Context, doc *T) error

// Resource builds the CRUD handlers for one document type T whose partial
// updates are described by P.
type Resource[T any, P Patch] struct {
	name   string
	plural string
	repo   ports.Repository[T]
	schema query.Schema
	bind   func(c echo.Context) (*T, error)
}

func NewResource[T any, P Patch](name, plural string, repo ports.Repository[T], schema query.Schema) *Resource[T, P] {
	return &Resource[T, P]{name: name, plural: plural, repo: repo, schema: schema, bind: bindDocument[T]}
}

// BindWith replaces how CreateOne decodes the request body into T.
func (r *Resource[T, P]) BindWith(bind func(c echo.Context) (*T, error)) *Resource[T, P] {
	r.bind = bind
	return r
}

func bindDocument[T any](c echo.Context) (*T, error) {
	doc := new(T)
	if err := c.Bind(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListOption adjusts how GetAll builds its query.
type ListOption func(c echo.Context, values url.Values) ([]query.Condition, error)

// Preset forces query-string values, as an alias route does.
func Preset(values url.Values) ListOption {
	return func(_ echo.Context, v url.Values) ([]query.Condition, error) {
		for k, vals := range values {
			v[k] = append([]string(nil), vals...)
		}
		return nil, nil
	}
}

// ScopeParam restricts the listing to documents whose reference field equals
// the path parameter param, when the route has one.
func ScopeParam(field, param string) ListOption {
	return func(c echo.Context, _ url.Values) ([]query.Condition, error) {
		id := c.Param(param)
		if id == "" {
			return nil, nil
		}
		return []query.Condition{{Field: field, Op: query.Eq, Value: id, Kind: query.Ref}}, nil
	}
}

func (r *Resource[T, P]) GetAll(opts ...ListOption) echo.HandlerFunc {
	return func(c echo.Context) error {
		values := url.Values{}
		for k, v := range c.QueryParams() {
			values[k] = v
		}

		var scope []query.Condition
		for _, opt := range opts {
			conds, err := opt(c, values)
			if err != nil {
				return err
			}
			scope = append(scope, conds...)
		}

		q, err := query.Parse(values, r.schema)
		if err != nil {
			return err
		}
		q = q.Where(scope...)

		docs, err := r.repo.Find(c.Request().Context(), q)
		if err != nil {
			return err
		}
		out, err := project(docs, q)
		if err != nil {
			return err
		}
		return successList(c, r.plural, out, len(docs))
	}
}

func (r *Resource[T, P]) GetOne() echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := r.repo.FindByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		return success(c, http.StatusOK, data(r.name, doc))
	}
}

// CreateOne decodes T, runs hooks in order, validates and persists.
func (r *Resource[T, P]) CreateOne(hooks ...Hook[T]) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := r.bind(c)
		if err != nil {
			return err
		}
		for _, h := range hooks {
			if err := h(c, doc); err != nil {
				return err
			}
		}
		if err := c.Validate(doc); err != nil {
			return err
		}

		created, err := r.repo.Create(c.Request().Context(), doc)
		if err != nil {
			return err
		}
		metrics.DocumentsWrittenTotal.WithLabelValues(r.name, "create").Inc()
		return success(c, http.StatusCreated, data(r.name, created))
	}
}

// UpdateOne applies the fields present in P. Absent fields are untouched, so
// replaying a request leaves the document unchanged.
func (r *Resource[T, P]) UpdateOne() echo.HandlerFunc {
	return func(c echo.Context) error {
		patch := new(P)
		if err := c.Bind(patch); err != nil {
			return err
		}
		if err := c.Validate(patch); err != nil {
			return err
		}

		updated, err := r.repo.FindByIDAndUpdate(c.Request().Context(), c.Param("id"), (*patch).Changes())
		if err != nil {
			return err
		}
		metrics.DocumentsWrittenTotal.WithLabelValues(r.name, "update").Inc()
		return success(c, http.StatusOK, data(r.name, updated))
	}
}

func (r *Resource[T, P]) DeleteOne() echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, err := r.repo.FindByIDAndDelete(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		metrics.DocumentsWrittenTotal.WithLabelValues(r.name, "delete").Inc()
		return c.NoContent(http.StatusNoContent)
	}
}

// project drops the fields a client did not ask for so projected responses
// do not carry zero values for them. id is always kept.
func project[T any](docs []T, q query.Query) (any, error) {
	if len(q.Include) == 0 && len(q.Exclude) == 0 {
		return docs, nil
	}

	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	if len(q.Include) > 0 {
		keep := map[string]struct{}{"id": {}}
		for _, f := range q.Include {
			keep[f] = struct{}{}
		}
		for _, row := range rows {
			for k := range row {
				if _, ok := keep[k]; !ok {
					delete(row, k)
				}
			}
		}
		return rows, nil
	}

	for _, row := range rows {
		for _, f := range q.Exclude {
			delete(row, f)
		}
	}
	return rows, nil
}
