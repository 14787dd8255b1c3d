// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"net/http"

	"accounts/config"
	"accounts/internal/delivery/api/middleware"
	"accounts/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware the routes need, injected by Fx.
type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	ProfileHandler *handler.ProfileHandler
	AuthMiddleware *middleware.AuthMiddleware
	Config         *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	profileHandler *handler.ProfileHandler
	authMiddleware *middleware.AuthMiddleware
	config         *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		profileHandler: params.ProfileHandler,
		authMiddleware: params.AuthMiddleware,
		config:         params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	// Public account routes
	usersGroup := e.Group("/users")
	{
		usersGroup.POST("", r.userHandler.Register)
		usersGroup.POST("/token", r.userHandler.IssueToken, middleware.NewTokenRateLimiter(r.config))
		usersGroup.DELETE("/token", r.userHandler.RevokeToken, r.authMiddleware.Authenticate)
	}

	// The authenticated user's own profile
	me := handler.ProfileResource
	e.GET(me.Path, r.profileHandler.GetProfile, r.authMiddleware.Authenticate)
	e.PUT(me.Path, r.profileHandler.PutProfile, r.authMiddleware.Authenticate)
	e.PATCH(me.Path, r.profileHandler.PatchProfile, r.authMiddleware.Authenticate)
	e.Match([]string{http.MethodPost, http.MethodDelete}, me.Path, me.MethodNotAllowed)
}
