package service

import (
	"github.com/deppfellow/jobly/internal/repository"
	"github.com/deppfellow/jobly/internal/server"
)

// Services groups every service so routing code receives a single value.
type Services struct {
	Auth    *AuthService
	Company *CompanyService
	Job     *JobService
}

// NewServices wires the services to the repositories and the task queue.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var enqueuer TaskEnqueuer
	if s.Tasks != nil {
		enqueuer = s.Tasks.Client
	}

	return &Services{
		Auth:    NewAuthService(s),
		Company: NewCompanyService(repos.Company, repos.Job),
		Job:     NewJobService(repos.Job, enqueuer),
	}, nil
}
