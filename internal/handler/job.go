package handler

import (
	"net/http"

	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/deppfellow/jobly/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

var jobUpdateRules = validation.UpdateRules{
	"title":  validation.NonEmptyString,
	"salary": validation.Nullable(validation.NonNegativeInt),
	"equity": validation.Nullable(validation.Fraction),
}

// CreateJobRequest is the body of POST /jobs. Equity may be sent as a
// number or a numeric string.
type CreateJobRequest struct {
	Title         string              `json:"title" validate:"required"`
	Salary        *int                `json:"salary" validate:"omitempty,gte=0,lte=2147483647"`
	Equity        decimal.NullDecimal `json:"equity"`
	CompanyHandle string              `json:"companyHandle" validate:"required,max=25"`
}

func (r *CreateJobRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	if r.Equity.Valid {
		if msg := validation.Fraction(r.Equity.Decimal); msg != "" {
			return validation.CustomValidationErrors{{Field: "equity", Message: msg}}
		}
	}
	return nil
}

// ListJobsRequest carries the optional search filters of GET /jobs.
type ListJobsRequest struct {
	Title     *string `query:"title" json:"title"`
	MinSalary *int    `query:"minSalary" json:"minSalary" validate:"omitempty,gte=0,lte=2147483647"`
	HasEquity *bool   `query:"hasEquity" json:"hasEquity"`
}

func (r *ListJobsRequest) Validate() error {
	return validation.Struct(r)
}

func (r *ListJobsRequest) filter() sqlbuild.JobFilter {
	return sqlbuild.JobFilter{
		Title:     r.Title,
		MinSalary: r.MinSalary,
		HasEquity: r.HasEquity,
	}
}

// JobIDRequest addresses one job by its path id.
type JobIDRequest struct {
	ID int `param:"id" validate:"required,gt=0,lte=2147483647"`
}

func (r *JobIDRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateJobRequest is PATCH /jobs/:id. A job cannot move to another company.
type UpdateJobRequest struct {
	ID     int                    `param:"id" validate:"required,gt=0,lte=2147483647"`
	Fields sqlbuild.UpdateRequest `json:"-"`
}

func (r *UpdateJobRequest) UnmarshalJSON(data []byte) error {
	return r.Fields.UnmarshalJSON(data)
}

func (r *UpdateJobRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validation.ValidateUpdate(r.Fields, jobUpdateRules, "id", "companyHandle")
}

type JobResponse struct {
	Job *model.Job `json:"job"`
}

type JobListResponse struct {
	Jobs []model.Job `json:"jobs"`
}

type JobHandler struct {
	Handler
	jobs *service.JobService
}

func NewJobHandler(s *server.Server, jobs *service.JobService) *JobHandler {
	return &JobHandler{
		Handler: NewHandler(s),
		jobs:    jobs,
	}
}

func (h *JobHandler) CreateJob(c echo.Context, req *CreateJobRequest) (*JobResponse, error) {
	job, err := h.jobs.Create(c.Request().Context(), model.NewJob{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
	})
	if err != nil {
		return nil, err
	}
	return &JobResponse{Job: job}, nil
}

func (h *JobHandler) ListJobs(c echo.Context, req *ListJobsRequest) (*JobListResponse, error) {
	jobs, err := h.jobs.List(c.Request().Context(), req.filter())
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	return &JobListResponse{Jobs: jobs}, nil
}

func (h *JobHandler) GetJob(c echo.Context, req *JobIDRequest) (*JobResponse, error) {
	job, err := h.jobs.Get(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	return &JobResponse{Job: job}, nil
}

func (h *JobHandler) UpdateJob(c echo.Context, req *UpdateJobRequest) (*JobResponse, error) {
	job, err := h.jobs.Update(c.Request().Context(), req.ID, req.Fields)
	if err != nil {
		return nil, err
	}
	return &JobResponse{Job: job}, nil
}

func (h *JobHandler) DeleteJob(c echo.Context, req *JobIDRequest) error {
	return h.jobs.Remove(c.Request().Context(), req.ID)
}

// Register mounts the job routes on g. Reads are public; writes go through
// the admin middlewares.
func (h *JobHandler) Register(g *echo.Group, admin ...echo.MiddlewareFunc) {
	g.GET("", Handle(h.Handler, h.ListJobs, http.StatusOK, &ListJobsRequest{}))
	g.GET("/:id", Handle(h.Handler, h.GetJob, http.StatusOK, &JobIDRequest{}))

	g.POST("", Handle(h.Handler, h.CreateJob, http.StatusCreated, &CreateJobRequest{}), admin...)
	g.PATCH("/:id", Handle(h.Handler, h.UpdateJob, http.StatusOK, &UpdateJobRequest{}), admin...)
	g.DELETE("/:id", HandleNoContent(h.Handler, h.DeleteJob, http.StatusNoContent, &JobIDRequest{}), admin...)
}
