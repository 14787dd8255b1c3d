package middleware

import (
	"time"

	"accounts/config"
	domainerrors "accounts/internal/domain/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const rateLimitVisitorTTL = 3 * time.Minute

// NewTokenRateLimiter throttles credential exchange per client IP. A non-positive rate disables it.
func NewTokenRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	limits := cfg.RateLimit
	if limits.TokenRequestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limits.TokenRequestsPerSecond),
		Burst:     limits.TokenBurst,
		ExpiresIn: rateLimitVisitorTTL,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(_ echo.Context, err error) error {
			return domainerrors.ErrInternalError.WithDetails(err.Error())
		},
		DenyHandler: func(_ echo.Context, _ string, _ error) error {
			return domainerrors.ErrTooManyRequests
		},
	})
}
