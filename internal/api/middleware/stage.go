// Package middleware holds the admission pipeline that runs in front of the
// route handlers.
package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

// Stage is one step of a route's admission pipeline. Admit either rejects the
// request with an error or admits it, optionally returning a derived context
// for the stages and handler that follow. A nil context keeps the current one.
type Stage interface {
	Admit(c echo.Context) (context.Context, error)
}

// StageFunc adapts a function to Stage.
type StageFunc func(c echo.Context) (context.Context, error)

func (f StageFunc) Admit(c echo.Context) (context.Context, error) { return f(c) }

// Chain runs stages in order and calls the handler only when every stage
// admits the request. The first rejection stops the pipeline.
func Chain(stages ...Stage) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, s := range stages {
				ctx, err := s.Admit(c)
				if err != nil {
					return err
				}
				if ctx != nil {
					c.SetRequest(c.Request().WithContext(ctx))
				}
			}
			return next(c)
		}
	}
}
