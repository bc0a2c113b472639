// Package router builds the echo instance: global middleware, the error
// handler, system routes and the versioned API.
package router

import (
	"github.com/deppfellow/jobly/internal/handler"
	"github.com/deppfellow/jobly/internal/middleware"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes. Middleware runs in the order
// listed: the rate limiter rejects early, tracing wraps everything after it,
// and Recover sits closest to the handlers.
//
// The request logger exists only from EnhanceContext on. Middleware mounted
// ahead of it logs through s.Logger, and so does the error handler when a
// request is rejected before reaching it.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	v1 := router.Group("/api/v1")
	admin := []echo.MiddlewareFunc{
		middlewares.Auth.RequireAuth,
		middlewares.Auth.RequireRole(services.Auth.IsAdmin),
	}

	h.Company.Register(v1.Group("/companies"), admin...)
	h.Job.Register(v1.Group("/jobs"), admin...)

	return router
}
