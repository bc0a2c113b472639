package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/deppfellow/jobly/internal/config"
	"github.com/deppfellow/jobly/internal/middleware"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/deppfellow/jobly/internal/service"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func errNotFound(table string, key any) error {
	return errors.Wrapf(pgx.ErrNoRows, "table:%s: no row for %v", table, key)
}

func intPtr(i int) *int { return &i }

type companyStore struct {
	companies  map[string]model.Company
	lastFilter sqlbuild.CompanyFilter
	lastUpdate sqlbuild.UpdateRequest
}

func (f *companyStore) Create(_ context.Context, in model.NewCompany) (*model.Company, error) {
	c := model.Company{Handle: in.Handle, Name: in.Name, Description: in.Description, NumEmployees: in.NumEmployees, LogoURL: in.LogoURL}
	f.companies[c.Handle] = c
	return &c, nil
}

func (f *companyStore) FindAll(_ context.Context, filter sqlbuild.CompanyFilter) ([]model.Company, error) {
	f.lastFilter = filter
	if _, err := sqlbuild.BuildCompanyFilter(filter); err != nil {
		return nil, err
	}
	var out []model.Company
	for _, c := range f.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *companyStore) Get(_ context.Context, handle string) (*model.Company, error) {
	c, ok := f.companies[handle]
	if !ok {
		return nil, errNotFound("companies", handle)
	}
	return &c, nil
}

func (f *companyStore) Update(ctx context.Context, handle string, update sqlbuild.UpdateRequest) (*model.Company, error) {
	f.lastUpdate = update
	if _, err := sqlbuild.BuildUpdateFragment(update, nil); err != nil {
		return nil, err
	}
	return f.Get(ctx, handle)
}

func (f *companyStore) Remove(_ context.Context, handle string) error {
	if _, ok := f.companies[handle]; !ok {
		return errNotFound("companies", handle)
	}
	delete(f.companies, handle)
	return nil
}

type jobStore struct {
	jobs       map[int]model.Job
	lastFilter sqlbuild.JobFilter
	lastUpdate sqlbuild.UpdateRequest
}

func (f *jobStore) Create(_ context.Context, in model.NewJob) (*model.Job, error) {
	j := model.Job{ID: len(f.jobs) + 1, Title: in.Title, Salary: in.Salary, Equity: in.Equity, CompanyHandle: in.CompanyHandle}
	f.jobs[j.ID] = j
	return &j, nil
}

func (f *jobStore) FindAll(_ context.Context, filter sqlbuild.JobFilter) ([]model.Job, error) {
	f.lastFilter = filter
	var out []model.Job
	for _, j := range f.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f *jobStore) ListByCompany(_ context.Context, handle string) ([]model.JobSummary, error) {
	var out []model.JobSummary
	for _, j := range f.jobs {
		if j.CompanyHandle == handle {
			out = append(out, model.JobSummary{ID: j.ID, Title: j.Title, Salary: j.Salary, Equity: j.Equity})
		}
	}
	return out, nil
}

func (f *jobStore) Get(_ context.Context, id int) (*model.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, errNotFound("jobs", id)
	}
	return &j, nil
}

func (f *jobStore) Update(ctx context.Context, id int, update sqlbuild.UpdateRequest) (*model.Job, error) {
	f.lastUpdate = update
	if _, err := sqlbuild.BuildUpdateFragment(update, nil); err != nil {
		return nil, err
	}
	return f.Get(ctx, id)
}

func (f *jobStore) Remove(_ context.Context, id int) error {
	if _, ok := f.jobs[id]; !ok {
		return errNotFound("jobs", id)
	}
	delete(f.jobs, id)
	return nil
}

type apiFixture struct {
	echo      *echo.Echo
	companies *companyStore
	jobs      *jobStore
}

func testServer() *server.Server {
	logger := zerolog.Nop()
	cfg := &config.Config{Primary: config.Primary{Env: "test"}}
	cfg.Observability = config.DefaultObservabilityConfig()
	return &server.Server{Config: cfg, Logger: &logger}
}

// newAPI mounts the company and job routes behind admin, the same way the
// router does.
func newAPI(admin ...echo.MiddlewareFunc) *apiFixture {
	s := testServer()

	companies := &companyStore{companies: map[string]model.Company{
		"c1": {Handle: "c1", Name: "C1", Description: "Desc1", NumEmployees: intPtr(1)},
		"c2": {Handle: "c2", Name: "C2", Description: "Desc2", NumEmployees: intPtr(2)},
	}}
	jobs := &jobStore{jobs: map[int]model.Job{
		1: {ID: 1, Title: "j1", Salary: intPtr(100), CompanyHandle: "c1"},
	}}

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	v1 := e.Group("/api/v1")
	NewCompanyHandler(s, service.NewCompanyService(companies, jobs)).Register(v1.Group("/companies"), admin...)
	NewJobHandler(s, service.NewJobService(jobs, nil)).Register(v1.Group("/jobs"), admin...)

	return &apiFixture{echo: e, companies: companies, jobs: jobs}
}

func (a *apiFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
}

