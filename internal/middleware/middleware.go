// Package middleware holds the echo middleware shared by all routes and the
// route-level guards.
//
// Global middleware covers CORS, secure headers, request ids, New Relic
// tracing, per-request loggers, request logging, rate limiting and panic
// recovery. AuthMiddleware verifies Clerk sessions and gates admin routes.
package middleware
