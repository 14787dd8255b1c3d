// Package handler contains the HTTP handlers for the API server.
package handler

import (
	"net/http"

	"accounts/internal/delivery/api/response"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// UserHandler serves registration, token exchange and logout.
type UserHandler struct {
	users  usecase.UserUsecase
	tokens usecase.TokenUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(users usecase.UserUsecase, tokens usecase.TokenUsecase) *UserHandler {
	return &UserHandler{
		users:  users,
		tokens: tokens,
	}
}

type registerRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required"`
	Name     string `json:"name" form:"name" validate:"required,max=255"`
}

type issueTokenRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// bindAndValidate binds the body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed request body")
	}

	return c.Validate(req)
}

// Register handles POST /users.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.users.Register(c.Request().Context(), &usecase.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusCreated, output.User.Profile())
}

// IssueToken handles POST /users/token.
func (h *UserHandler) IssueToken(c echo.Context) error {
	var req issueTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	output, err := h.tokens.Issue(c.Request().Context(), &usecase.IssueTokenInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, tokenResponse{Token: output.Token})
}

// RevokeToken handles DELETE /users/token; the caller's token stops resolving.
func (h *UserHandler) RevokeToken(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.tokens.Revoke(c.Request().Context(), user.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// HealthCheck reports liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}
