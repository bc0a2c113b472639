package service

import (
	"context"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/lib/tasks"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobStore is the persistence the job service needs.
type JobStore interface {
	Create(ctx context.Context, in model.NewJob) (*model.Job, error)
	FindAll(ctx context.Context, filter sqlbuild.JobFilter) ([]model.Job, error)
	Get(ctx context.Context, id int) (*model.Job, error)
	Update(ctx context.Context, id int, update sqlbuild.UpdateRequest) (*model.Job, error)
	Remove(ctx context.Context, id int) error
}

// TaskEnqueuer puts background tasks on the queue. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// JobService implements the job use cases.
type JobService struct {
	jobs  JobStore
	queue TaskEnqueuer
}

// NewJobService constructs a JobService. queue may be nil, which disables notifications.
func NewJobService(jobs JobStore, queue TaskEnqueuer) *JobService {
	return &JobService{jobs: jobs, queue: queue}
}

// Create stores a job and enqueues its posting:created task.
//
// The job is already committed when the task is enqueued, so an enqueue
// failure is logged and the created job is still returned.
func (s *JobService) Create(ctx context.Context, in model.NewJob) (*model.Job, error) {
	job, err := s.jobs.Create(ctx, in)
	if err != nil {
		return nil, translateError(ctx, err, "create job")
	}

	s.announce(ctx, job)
	return job, nil
}

func (s *JobService) announce(ctx context.Context, job *model.Job) {
	if s.queue == nil {
		return
	}

	log := zerolog.Ctx(ctx)

	task, err := tasks.NewJobPostedTask(job)
	if err != nil {
		log.Error().Err(err).Int("job_id", job.ID).Msg("failed to build job posted task")
		return
	}

	info, err := s.queue.EnqueueContext(ctx, task)
	if err != nil {
		log.Error().Err(err).Int("job_id", job.ID).Msg("failed to enqueue job posted task")
		return
	}

	log.Debug().Int("job_id", job.ID).Str("task_id", info.ID).Msg("enqueued job posted task")
}

// List returns the jobs matching filter, ordered by title.
func (s *JobService) List(ctx context.Context, filter sqlbuild.JobFilter) ([]model.Job, error) {
	jobs, err := s.jobs.FindAll(ctx, filter)
	if err != nil {
		return nil, translateError(ctx, err, "list jobs")
	}
	return jobs, nil
}

// Get returns one job.
func (s *JobService) Get(ctx context.Context, id int) (*model.Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return nil, translateError(ctx, err, "get job")
	}
	return job, nil
}

// Update applies a partial update. A job never moves to another company,
// so companyHandle is refused.
func (s *JobService) Update(ctx context.Context, id int, update sqlbuild.UpdateRequest) (*model.Job, error) {
	if update.Has("companyHandle") {
		code := CodeImmutableField
		return nil, errs.NewBadRequestError("companyHandle cannot be changed", true, &code,
			[]errs.FieldError{{Field: "companyHandle", Error: "cannot be changed"}}, nil)
	}

	job, err := s.jobs.Update(ctx, id, update)
	if err != nil {
		return nil, translateError(ctx, err, "update job")
	}
	return job, nil
}

// Remove deletes one job.
func (s *JobService) Remove(ctx context.Context, id int) error {
	if err := s.jobs.Remove(ctx, id); err != nil {
		return translateError(ctx, err, "remove job")
	}
	return nil
}
