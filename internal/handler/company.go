package handler

import (
	"net/http"

	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/deppfellow/jobly/internal/validation"
	"github.com/labstack/echo/v4"
)

// companyUpdateRules are the fields PATCH /companies/:handle accepts.
var companyUpdateRules = validation.UpdateRules{
	"name":         validation.NonEmptyString,
	"description":  validation.String,
	"numEmployees": validation.Nullable(validation.NonNegativeInt),
	"logoUrl":      validation.Nullable(validation.URL),
}

// CreateCompanyRequest is the body of POST /companies.
type CreateCompanyRequest struct {
	Handle       string  `json:"handle" validate:"required,max=25"`
	Name         string  `json:"name" validate:"required"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees" validate:"omitempty,gte=0,lte=2147483647"`
	LogoURL      *string `json:"logoUrl" validate:"omitempty,url"`
}

func (r *CreateCompanyRequest) Validate() error {
	return validation.Struct(r)
}

// ListCompaniesRequest carries the optional search filters of GET /companies.
// They are read from the query string or, for older clients, a JSON body.
type ListCompaniesRequest struct {
	NameLike     *string `query:"nameLike" json:"nameLike"`
	MinEmployees *int    `query:"minEmployees" json:"minEmployees" validate:"omitempty,gte=0,lte=2147483647"`
	MaxEmployees *int    `query:"maxEmployees" json:"maxEmployees" validate:"omitempty,gte=0,lte=2147483647"`
}

func (r *ListCompaniesRequest) Validate() error {
	return validation.Struct(r)
}

func (r *ListCompaniesRequest) filter() sqlbuild.CompanyFilter {
	return sqlbuild.CompanyFilter{
		NameLike:     r.NameLike,
		MinEmployees: r.MinEmployees,
		MaxEmployees: r.MaxEmployees,
	}
}

// CompanyHandleRequest addresses one company by its path handle.
type CompanyHandleRequest struct {
	Handle string `param:"handle" validate:"required"`
}

func (r *CompanyHandleRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateCompanyRequest is PATCH /companies/:handle. The body is kept as an
// ordered update so the SET clause follows the client's field order.
type UpdateCompanyRequest struct {
	Handle string                 `param:"handle" validate:"required"`
	Fields sqlbuild.UpdateRequest `json:"-"`
}

func (r *UpdateCompanyRequest) UnmarshalJSON(data []byte) error {
	return r.Fields.UnmarshalJSON(data)
}

func (r *UpdateCompanyRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}
	return validation.ValidateUpdate(r.Fields, companyUpdateRules, "handle")
}

// CompanyResponse wraps a single company.
type CompanyResponse struct {
	Company *model.Company `json:"company"`
}

// CompanyDetailResponse wraps a company with its jobs.
type CompanyDetailResponse struct {
	Company *model.CompanyDetail `json:"company"`
}

// CompanyListResponse wraps a list of companies.
type CompanyListResponse struct {
	Companies []model.Company `json:"companies"`
}

type CompanyHandler struct {
	Handler
	companies *service.CompanyService
}

func NewCompanyHandler(s *server.Server, companies *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		Handler:   NewHandler(s),
		companies: companies,
	}
}

func (h *CompanyHandler) CreateCompany(c echo.Context, req *CreateCompanyRequest) (*CompanyResponse, error) {
	company, err := h.companies.Create(c.Request().Context(), model.NewCompany{
		Handle:       req.Handle,
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		return nil, err
	}
	return &CompanyResponse{Company: company}, nil
}

func (h *CompanyHandler) ListCompanies(c echo.Context, req *ListCompaniesRequest) (*CompanyListResponse, error) {
	companies, err := h.companies.List(c.Request().Context(), req.filter())
	if err != nil {
		return nil, err
	}
	if companies == nil {
		companies = []model.Company{}
	}
	return &CompanyListResponse{Companies: companies}, nil
}

func (h *CompanyHandler) GetCompany(c echo.Context, req *CompanyHandleRequest) (*CompanyDetailResponse, error) {
	company, err := h.companies.Get(c.Request().Context(), req.Handle)
	if err != nil {
		return nil, err
	}
	if company.Jobs == nil {
		company.Jobs = []model.JobSummary{}
	}
	return &CompanyDetailResponse{Company: company}, nil
}

func (h *CompanyHandler) UpdateCompany(c echo.Context, req *UpdateCompanyRequest) (*CompanyResponse, error) {
	company, err := h.companies.Update(c.Request().Context(), req.Handle, req.Fields)
	if err != nil {
		return nil, err
	}
	return &CompanyResponse{Company: company}, nil
}

func (h *CompanyHandler) DeleteCompany(c echo.Context, req *CompanyHandleRequest) error {
	return h.companies.Remove(c.Request().Context(), req.Handle)
}

// Register mounts the company routes on g. Reads are public; writes go
// through the admin middlewares.
func (h *CompanyHandler) Register(g *echo.Group, admin ...echo.MiddlewareFunc) {
	g.GET("", Handle(h.Handler, h.ListCompanies, http.StatusOK, &ListCompaniesRequest{}))
	g.GET("/:handle", Handle(h.Handler, h.GetCompany, http.StatusOK, &CompanyHandleRequest{}))

	g.POST("", Handle(h.Handler, h.CreateCompany, http.StatusCreated, &CreateCompanyRequest{}), admin...)
	g.PATCH("/:handle", Handle(h.Handler, h.UpdateCompany, http.StatusOK, &UpdateCompanyRequest{}), admin...)
	g.DELETE("/:handle", HandleNoContent(h.Handler, h.DeleteCompany, http.StatusNoContent, &CompanyHandleRequest{}), admin...)
}
