package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/reqctx"
	"github.com/natours/booking-api/internal/core/domain"
)

// currentUser returns the identity attached by the Protect stage. Its absence
// means the route was registered without Protect.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := reqctx.Identity(c.Request().Context())
	if !ok {
		return nil, domain.Errorf(domain.ErrUnauthenticated, "You are not logged in! Please log in to get access.")
	}
	return user, nil
}
