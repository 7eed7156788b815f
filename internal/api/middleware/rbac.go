package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/api/reqctx"
	"github.com/natours/booking-api/internal/core/domain"
)

const (
	msgForbidden  = "You do not have permission to perform this action"
	msgNoIdentity = "Authentication required before role checks."
)

// RestrictTo admits only identities whose role is one of roles. It must run
// after Protect; a request without an identity is rejected as unauthenticated.
func RestrictTo(roles ...domain.Role) Stage {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return StageFunc(func(c echo.Context) (context.Context, error) {
		user, ok := reqctx.Identity(c.Request().Context())
		if !ok {
			metrics.AuthRejectionsTotal.WithLabelValues("restrict", "no_identity").Inc()
			return nil, domain.Errorf(domain.ErrUnauthenticated, msgNoIdentity)
		}
		if _, ok := allowed[user.Role]; !ok {
			metrics.AuthRejectionsTotal.WithLabelValues("restrict", "forbidden").Inc()
			return nil, domain.Errorf(domain.ErrForbidden, msgForbidden)
		}
		return nil, nil
	})
}
