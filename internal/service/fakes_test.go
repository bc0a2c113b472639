package service

import (
	"context"

	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/hibiken/asynq"
)

type fakeCompanyStore struct {
	companies map[string]model.Company
	err       error

	lastFilter sqlbuild.CompanyFilter
	lastUpdate sqlbuild.UpdateRequest
}

func (f *fakeCompanyStore) Create(_ context.Context, in model.NewCompany) (*model.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := model.Company{Handle: in.Handle, Name: in.Name, Description: in.Description, NumEmployees: in.NumEmployees, LogoURL: in.LogoURL}
	return &c, nil
}

func (f *fakeCompanyStore) FindAll(_ context.Context, filter sqlbuild.CompanyFilter) ([]model.Company, error) {
	f.lastFilter = filter
	if _, err := sqlbuild.BuildCompanyFilter(filter); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Company{}
	for _, c := range f.companies {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCompanyStore) Get(_ context.Context, handle string) (*model.Company, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.companies[handle]
	if !ok {
		return nil, errNotFound("companies", handle)
	}
	return &c, nil
}

func (f *fakeCompanyStore) Update(_ context.Context, handle string, update sqlbuild.UpdateRequest) (*model.Company, error) {
	f.lastUpdate = update
	if _, err := sqlbuild.BuildUpdateFragment(update, nil); err != nil {
		return nil, err
	}
	return f.Get(context.Background(), handle)
}

func (f *fakeCompanyStore) Remove(_ context.Context, handle string) error {
	if _, ok := f.companies[handle]; !ok {
		return errNotFound("companies", handle)
	}
	delete(f.companies, handle)
	return nil
}

type fakeJobStore struct {
	jobs    map[int]model.Job
	err     error
	created []model.NewJob
	updated sqlbuild.UpdateRequest
}

func (f *fakeJobStore) Create(_ context.Context, in model.NewJob) (*model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	j := model.Job{ID: len(f.created), Title: in.Title, Salary: in.Salary, Equity: in.Equity, CompanyHandle: in.CompanyHandle}
	return &j, nil
}

func (f *fakeJobStore) FindAll(_ context.Context, _ sqlbuild.JobFilter) ([]model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Job{}
	for _, j := range f.jobs {
		out = append(out, j)
	}
	return out, nil
}

func (f *fakeJobStore) ListByCompany(_ context.Context, handle string) ([]model.JobSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.JobSummary{}
	for _, j := range f.jobs {
		if j.CompanyHandle == handle {
			out = append(out, model.JobSummary{ID: j.ID, Title: j.Title, Salary: j.Salary, Equity: j.Equity})
		}
	}
	return out, nil
}

func (f *fakeJobStore) Get(_ context.Context, id int) (*model.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, errNotFound("jobs", id)
	}
	return &j, nil
}

func (f *fakeJobStore) Update(ctx context.Context, id int, update sqlbuild.UpdateRequest) (*model.Job, error) {
	f.updated = update
	if _, err := sqlbuild.BuildUpdateFragment(update, nil); err != nil {
		return nil, err
	}
	return f.Get(ctx, id)
}

func (f *fakeJobStore) Remove(_ context.Context, id int) error {
	if _, ok := f.jobs[id]; !ok {
		return errNotFound("jobs", id)
	}
	delete(f.jobs, id)
	return nil
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}
