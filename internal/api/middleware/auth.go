package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/custrec/customer-service/internal/core/domain"
	"github.com/custrec/customer-service/internal/core/ports"
)

type userIDKey struct{}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom returns the user id attached by Auth.
func UserIDFrom(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey{}).(int64)
	return id, ok && id > 0
}

// Auth verifies the bearer token and attaches the user id to the request
// context. Every failure is reported as domain.ErrUnauthorized so callers
// cannot tell a missing header from a forged or expired token. The reason is
// logged at debug level.
func Auth(verifier ports.TokenVerifier, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return domain.ErrUnauthorized
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				log.Debug().
					Err(err).
					Str("path", c.Path()).
					Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
					Msg("token rejected")
				return domain.ErrUnauthorized
			}

			req := c.Request()
			c.SetRequest(req.WithContext(WithUserID(req.Context(), userID)))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
