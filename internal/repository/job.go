package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/jobly/internal/model"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const jobsTable = "jobs"

var jobColumns = []string{"id", "title", "salary", "equity", "company_handle"}

var jobFieldColumns = sqlbuild.ColumnMap{
	"companyHandle": "company_handle",
}

// JobRepository reads and writes the jobs table.
type JobRepository struct {
	db Querier
}

// NewJobRepository constructs a JobRepository.
func NewJobRepository(db Querier) *JobRepository {
	return &JobRepository{db: db}
}

func scanJob(row pgx.Row) (model.Job, error) {
	var j model.Job
	err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity, &j.CompanyHandle)
	return j, err
}

// Create inserts a job and returns the stored row, including its generated id.
func (r *JobRepository) Create(ctx context.Context, in model.NewJob) (*model.Job, error) {
	query, args, err := psql.Insert(jobsTable).
		Columns("title", "salary", "equity", "company_handle").
		Values(in.Title, in.Salary, in.Equity, in.CompanyHandle).
		Suffix(returning(jobColumns)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building job insert")
	}

	job, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, errors.Wrapf(err, "inserting job %q", in.Title)
	}
	return &job, nil
}

// FindAll lists jobs matching filter, ordered by title.
func (r *JobRepository) FindAll(ctx context.Context, filter sqlbuild.JobFilter) ([]model.Job, error) {
	where := sqlbuild.BuildJobFilter(filter)

	query := joinSQL(
		fmt.Sprintf("SELECT %s FROM %s", joinColumns(jobColumns), jobsTable),
		where.Text,
		"ORDER BY title",
	)

	rows, err := r.db.Query(ctx, query, where.Values...)
	if err != nil {
		return nil, errors.Wrap(err, "listing jobs")
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Job, error) {
		return scanJob(row)
	})
	if err != nil {
		return nil, errors.Wrap(err, "scanning jobs")
	}
	return jobs, nil
}

// ListByCompany returns the jobs posted by a company, oldest first.
func (r *JobRepository) ListByCompany(ctx context.Context, handle string) ([]model.JobSummary, error) {
	query, args, err := psql.Select("id", "title", "salary", "equity").
		From(jobsTable).
		Where(sq.Eq{"company_handle": handle}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building company jobs select")
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "listing jobs of %s", handle)
	}

	jobs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.JobSummary, error) {
		var j model.JobSummary
		err := row.Scan(&j.ID, &j.Title, &j.Salary, &j.Equity)
		return j, err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning jobs of %s", handle)
	}
	return jobs, nil
}

// Get fetches one job by id.
func (r *JobRepository) Get(ctx context.Context, id int) (*model.Job, error) {
	query, args, err := psql.Select(jobColumns...).
		From(jobsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building job select")
	}

	job, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(jobsTable, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching job %d", id)
	}
	return &job, nil
}

// Update applies a partial update to the job with the given id.
func (r *JobRepository) Update(ctx context.Context, id int, update sqlbuild.UpdateRequest) (*model.Job, error) {
	set, err := sqlbuild.BuildUpdateFragment(update, jobFieldColumns)
	if err != nil {
		return nil, err
	}

	query := joinSQL(
		fmt.Sprintf("UPDATE %s SET %s", jobsTable, set.Text),
		fmt.Sprintf("WHERE id = %s", set.NextPlaceholder()),
		returning(jobColumns),
	)
	args := append(set.Values, id)

	job, err := scanJob(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(jobsTable, id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating job %d", id)
	}
	return &job, nil
}

// Remove deletes the job with the given id.
func (r *JobRepository) Remove(ctx context.Context, id int) error {
	query, args, err := psql.Delete(jobsTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building job delete")
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "deleting job %d", id)
	}
	if tag.RowsAffected() == 0 {
		return notFound(jobsTable, id)
	}
	return nil
}
