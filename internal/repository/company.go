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

const companiesTable = "companies"

// companyColumns is the column list every company query selects, in scan order.
var companyColumns = []string{"handle", "name", "description", "num_employees", "logo_url"}

// companyFieldColumns maps API field names to companies columns where they differ.
var companyFieldColumns = sqlbuild.ColumnMap{
	"numEmployees": "num_employees",
	"logoUrl":      "logo_url",
}

// CompanyRepository reads and writes the companies table.
type CompanyRepository struct {
	db Querier
}

// NewCompanyRepository constructs a CompanyRepository.
func NewCompanyRepository(db Querier) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func scanCompany(row pgx.Row) (model.Company, error) {
	var c model.Company
	err := row.Scan(&c.Handle, &c.Name, &c.Description, &c.NumEmployees, &c.LogoURL)
	return c, err
}

// Create inserts a company and returns the stored row.
//
// A duplicate handle surfaces as a unique violation, which sqlerr maps to a 400.
func (r *CompanyRepository) Create(ctx context.Context, in model.NewCompany) (*model.Company, error) {
	query, args, err := psql.Insert(companiesTable).
		Columns(companyColumns...).
		Values(in.Handle, in.Name, in.Description, in.NumEmployees, in.LogoURL).
		Suffix(returning(companyColumns)).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building company insert")
	}

	company, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, errors.Wrapf(err, "inserting company %s", in.Handle)
	}
	return &company, nil
}

// FindAll lists companies matching filter, ordered by name.
//
// An empty filter returns every company. An inverted employee range fails
// with sqlbuild.ErrInvalidRange before any query runs.
func (r *CompanyRepository) FindAll(ctx context.Context, filter sqlbuild.CompanyFilter) ([]model.Company, error) {
	where, err := sqlbuild.BuildCompanyFilter(filter)
	if err != nil {
		return nil, err
	}

	query := joinSQL(
		fmt.Sprintf("SELECT %s FROM %s", joinColumns(companyColumns), companiesTable),
		where.Text,
		"ORDER BY name",
	)

	rows, err := r.db.Query(ctx, query, where.Values...)
	if err != nil {
		return nil, errors.Wrap(err, "listing companies")
	}

	companies, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Company, error) {
		return scanCompany(row)
	})
	if err != nil {
		return nil, errors.Wrap(err, "scanning companies")
	}
	return companies, nil
}

// Get fetches one company by handle.
func (r *CompanyRepository) Get(ctx context.Context, handle string) (*model.Company, error) {
	query, args, err := psql.Select(companyColumns...).
		From(companiesTable).
		Where(sq.Eq{"handle": handle}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building company select")
	}

	company, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(companiesTable, handle)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "fetching company %s", handle)
	}
	return &company, nil
}

// Update applies a partial update to the company with the given handle.
//
// Only the fields present in update change. The handle is bound after the
// SET values, at the fragment's next placeholder.
func (r *CompanyRepository) Update(ctx context.Context, handle string, update sqlbuild.UpdateRequest) (*model.Company, error) {
	set, err := sqlbuild.BuildUpdateFragment(update, companyFieldColumns)
	if err != nil {
		return nil, err
	}

	query := joinSQL(
		fmt.Sprintf("UPDATE %s SET %s", companiesTable, set.Text),
		fmt.Sprintf("WHERE handle = %s", set.NextPlaceholder()),
		returning(companyColumns),
	)
	args := append(set.Values, handle)

	company, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(companiesTable, handle)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "updating company %s", handle)
	}
	return &company, nil
}

// Remove deletes the company with the given handle. Its jobs go with it (ON DELETE CASCADE).
func (r *CompanyRepository) Remove(ctx context.Context, handle string) error {
	query, args, err := psql.Delete(companiesTable).
		Where(sq.Eq{"handle": handle}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "building company delete")
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "deleting company %s", handle)
	}
	if tag.RowsAffected() == 0 {
		return notFound(companiesTable, handle)
	}
	return nil
}
