package service

import (
	"context"

	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/sqlbuild"
)

// CompanyStore is the persistence the company service needs.
type CompanyStore interface {
	Create(ctx context.Context, in model.NewCompany) (*model.Company, error)
	FindAll(ctx context.Context, filter sqlbuild.CompanyFilter) ([]model.Company, error)
	Get(ctx context.Context, handle string) (*model.Company, error)
	Update(ctx context.Context, handle string, update sqlbuild.UpdateRequest) (*model.Company, error)
	Remove(ctx context.Context, handle string) error
}

// CompanyJobLister lists the jobs embedded in a company's detail view.
type CompanyJobLister interface {
	ListByCompany(ctx context.Context, handle string) ([]model.JobSummary, error)
}

// CompanyService implements the company use cases.
type CompanyService struct {
	companies CompanyStore
	jobs      CompanyJobLister
}

// NewCompanyService constructs a CompanyService.
func NewCompanyService(companies CompanyStore, jobs CompanyJobLister) *CompanyService {
	return &CompanyService{companies: companies, jobs: jobs}
}

// Create stores a new company. A taken handle is a 400 COMPANY_ALREADY_EXISTS.
func (s *CompanyService) Create(ctx context.Context, in model.NewCompany) (*model.Company, error) {
	company, err := s.companies.Create(ctx, in)
	if err != nil {
		return nil, translateError(ctx, err, "create company")
	}
	return company, nil
}

// List returns the companies matching filter, ordered by name.
func (s *CompanyService) List(ctx context.Context, filter sqlbuild.CompanyFilter) ([]model.Company, error) {
	companies, err := s.companies.FindAll(ctx, filter)
	if err != nil {
		return nil, translateError(ctx, err, "list companies")
	}
	return companies, nil
}

// Get returns a company together with its jobs.
func (s *CompanyService) Get(ctx context.Context, handle string) (*model.CompanyDetail, error) {
	company, err := s.companies.Get(ctx, handle)
	if err != nil {
		return nil, translateError(ctx, err, "get company")
	}

	jobs, err := s.jobs.ListByCompany(ctx, handle)
	if err != nil {
		return nil, translateError(ctx, err, "list company jobs")
	}

	return &model.CompanyDetail{Company: *company, Jobs: jobs}, nil
}

// Update applies a partial update. The fields must already be validated.
func (s *CompanyService) Update(ctx context.Context, handle string, update sqlbuild.UpdateRequest) (*model.Company, error) {
	company, err := s.companies.Update(ctx, handle, update)
	if err != nil {
		return nil, translateError(ctx, err, "update company")
	}
	return company, nil
}

// Remove deletes a company and, through the foreign key, its jobs.
func (s *CompanyService) Remove(ctx context.Context, handle string) error {
	if err := s.companies.Remove(ctx, handle); err != nil {
		return translateError(ctx, err, "remove company")
	}
	return nil
}
