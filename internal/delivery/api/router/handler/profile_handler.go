package handler

import (
	"net/http"
	"strings"

	deliverycontext "accounts/internal/delivery/context"
	"accounts/internal/delivery/api/response"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// ProfileResource declares the verbs served at /users/me. Anything else is 405.
var ProfileResource = Resource{
	Path:    "/users/me",
	Allowed: []string{http.MethodGet, http.MethodPut, http.MethodPatch},
}

// Resource is a path together with the verbs it supports.
type Resource struct {
	Path    string
	Allowed []string
}

// MethodNotAllowed answers 405 and advertises the supported verbs.
func (r Resource) MethodNotAllowed(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderAllow, strings.Join(r.Allowed, ", "))

	return domainerrors.ErrMethodNotAllowed
}

// ProfileHandler serves the authenticated user's own profile.
type ProfileHandler struct {
	profiles usecase.ProfileUsecase
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(profiles usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// updateProfileRequest has no email field; the identity cannot be changed here.
type updateProfileRequest struct {
	Name     *string `json:"name" form:"name" validate:"omitempty,min=1,max=255"`
	Password *string `json:"password" form:"password"`
}

func currentUser(c echo.Context) (*entity.User, error) {
	user, ok := deliverycontext.GetUser(c)
	if !ok {
		return nil, domainerrors.ErrUnauthorized
	}

	return user, nil
}

// GetProfile handles GET /users/me.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	profile, err := h.profiles.GetProfile(c.Request().Context(), user)
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, profile)
}

// PatchProfile handles PATCH /users/me: only the supplied fields change.
func (h *ProfileHandler) PatchProfile(c echo.Context) error {
	return h.update(c, false)
}

// PutProfile handles PUT /users/me: name and password are both required.
func (h *ProfileHandler) PutProfile(c echo.Context) error {
	return h.update(c, true)
}

func (h *ProfileHandler) update(c echo.Context, full bool) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profiles.UpdateProfile(c.Request().Context(), user, &usecase.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
		Full:     full,
	})
	if err != nil {
		return err
	}

	return response.Success(c, http.StatusOK, profile)
}
