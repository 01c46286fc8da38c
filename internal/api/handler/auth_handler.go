package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/custrec/customer-service/internal/api/metrics"
	"github.com/custrec/customer-service/internal/core/domain"
	"github.com/custrec/customer-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
		case domain.IsValidation(err):
			metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		default:
			metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	metrics.AuthRegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  messageResponse
// @Failure      500   {object}  messageResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		} else {
			metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		}
		return err
	}

	metrics.AuthLoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  messageResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, meResponse{ID: user.ID, Email: user.Email})
}
