package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/natours/booking-api/internal/api/metrics"
	"github.com/natours/booking-api/internal/core/domain"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"

	msgTooManyRequests = "Too many requests from this IP, please try again in an hour!"
)

// RateLimit counts requests per client IP in a fixed window. When the store
// is unreachable the request is let through and the failure logged.
func RateLimit(lim *limiter.Limiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res, err := lim.Get(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Str("ip", c.RealIP()).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.FormatInt(res.Limit, 10))
			h.Set(HeaderRateLimitRemaining, strconv.FormatInt(res.Remaining, 10))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(res.Reset, 10))

			if res.Reached {
				metrics.RateLimitedTotal.Inc()
				return domain.Errorf(domain.ErrRateLimited, msgTooManyRequests)
			}
			return next(c)
		}
	}
}
