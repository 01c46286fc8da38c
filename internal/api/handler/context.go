package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/custrec/customer-service/internal/api/middleware"
	"github.com/custrec/customer-service/internal/core/domain"
)

// currentUserID returns the id the Auth middleware attached to the request.
// A missing id means the route was mounted without the middleware.
func currentUserID(c echo.Context) (int64, error) {
	id, ok := middleware.UserIDFrom(c.Request().Context())
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return id, nil
}
