package middleware

import (
	"log/slog"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Accepted Authorization schemes. Both carry the same opaque token.
var authSchemes = []string{"Token", "Bearer"}

// AuthMiddleware resolves the Authorization header through the AuthGate.
type AuthMiddleware struct {
	gate usecase.AuthGate
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(gate usecase.AuthGate) *AuthMiddleware {
	return &AuthMiddleware{gate: gate}
}

// Authenticate rejects the request with 401 unless it carries a valid token,
// and stores the resolved user on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawToken, ok := extractToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return domainerrors.ErrUnauthorized
		}

		req := c.Request()
		user, err := m.gate.Resolve(req.Context(), rawToken)
		if err != nil {
			return err
		}

		deliverycontext.SetUser(c, user)

		if logger := deliverycontext.GetLogger(req.Context()); logger != nil {
			ctx := deliverycontext.WithLogger(req.Context(), logger.With(slog.String("user_id", user.ID.String())))
			c.SetRequest(req.WithContext(ctx))
		}

		return next(c)
	}
}

// extractToken parses "<scheme> <token>" with a case-insensitive scheme.
func extractToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}

	for _, accepted := range authSchemes {
		if strings.EqualFold(scheme, accepted) {
			token = strings.TrimSpace(token)

			return token, token != ""
		}
	}

	return "", false
}
