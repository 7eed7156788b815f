package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/api/reqctx"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// TokenCookie is the cookie that carries the session token for browsers.
const TokenCookie = "jwt"

const msgNotLoggedIn = "You are not logged in! Please log in to get access."

// Protect admits requests carrying a valid session token for an active
// identity and attaches that identity to the request context. The token is
// read from "Authorization: Bearer <token>" or, failing that, the jwt cookie.
func Protect(auth ports.Authenticator) Stage {
	return StageFunc(func(c echo.Context) (context.Context, error) {
		token := bearerToken(c)
		if token == "" {
			metrics.AuthRejectionsTotal.WithLabelValues("protect", "no_token").Inc()
			return nil, domain.Errorf(domain.ErrUnauthenticated, msgNotLoggedIn)
		}

		ctx := c.Request().Context()
		user, err := auth.Authenticate(ctx, token)
		if err != nil {
			metrics.AuthRejectionsTotal.WithLabelValues("protect", "invalid_session").Inc()
			return nil, err
		}
		return reqctx.WithIdentity(ctx, user), nil
	})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "bearer") {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
