package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/api/handler"
	"github.com/natours/booking-api/internal/core/domain"
)

const msgUnexpected = "Something went very wrong!"

var kindStatus = []struct {
	kind error
	code int
}{
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrRateLimited, http.StatusTooManyRequests},
	{domain.ErrInternal, http.StatusInternalServerError},
}

// NewHTTPErrorHandler returns the echo.HTTPErrorHandler that renders every
// failure as a handler.Envelope. 4xx responses carry status "fail", 5xx
// carry "error". Unexpected errors are logged and, in production, hidden
// behind a generic message.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if errors.Is(err, echo.ErrNotFound) {
			err = handler.NotFound(c)
		}

		code, msg, expected := resolveError(err)
		if !expected {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Msg("unhandled error")
			if production {
				msg = msgUnexpected
			}
		}

		body := handler.Envelope{Status: handler.StatusFail, Message: msg}
		if code >= http.StatusInternalServerError {
			body.Status = handler.StatusError
		}
		if !production {
			body.Error = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			log.Error().Err(err).Msg("write error response")
		}
	}
}

// resolveError maps err to a status code and a client message. expected is
// false for errors nobody classified.
func resolveError(err error) (code int, msg string, expected bool) {
	var de *domain.Error
	if errors.As(err, &de) {
		for _, ks := range kindStatus {
			if errors.Is(de.Kind, ks.kind) {
				return ks.code, de.Message, true
			}
		}
		return http.StatusInternalServerError, de.Message, false
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && he.Code >= http.StatusInternalServerError {
			return he.Code, fmt.Sprintf("%v", he.Message), false
		}
		return he.Code, fmt.Sprintf("%v", he.Message), true
	}

	return http.StatusInternalServerError, err.Error(), false
}
