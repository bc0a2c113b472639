// Package handler is the HTTP layer between the router and the services.
//
// Handlers bind and validate requests with the validation package, call a
// service and shape the JSON response. Errors are returned as-is and
// rendered by the global error handler.
package handler

import (
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Company *CompanyHandler
	Job     *JobHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Company: NewCompanyHandler(s, services.Company),
		Job:     NewJobHandler(s, services.Job),
	}
}
