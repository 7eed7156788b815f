package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/core/domain"
)

// Envelope statuses.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token,omitempty"`
	Results *int   `json:"results,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	// Error carries internal details and is only set in development.
	Error string `json:"error,omitempty"`
}

// data wraps a single named document: {"<name>": v}.
func data(name string, v any) map[string]any {
	return map[string]any{name: v}
}

func success(c echo.Context, code int, payload any) error {
	return c.JSON(code, Envelope{Status: StatusSuccess, Data: payload})
}

func successList(c echo.Context, name string, docs any, n int) error {
	return c.JSON(http.StatusOK, Envelope{Status: StatusSuccess, Results: &n, Data: data(name, docs)})
}

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, Envelope{Status: StatusSuccess, Message: msg})
}

// NotFound answers requests that match no route.
func NotFound(c echo.Context) error {
	return domain.Errorf(domain.ErrNotFound, "Can't find %s on this server!", c.Request().RequestURI)
}
