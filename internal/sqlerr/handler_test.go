package sqlerr

import (
	"net/http"
	"testing"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestHandleErrorPgErrors(t *testing.T) {
	tests := []struct {
		name        string
		pgErr       *pgconn.PgError
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "duplicate company handle",
			pgErr:       &pgconn.PgError{Code: "23505", TableName: "companies", ConstraintName: "companies_handle_key"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "COMPANY_ALREADY_EXISTS",
			wantMessage: "A Company with this Handle already exists",
		},
		{
			name:        "job for unknown company",
			pgErr:       &pgconn.PgError{Code: "23503", TableName: "jobs", ConstraintName: "jobs_company_handle_fkey"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "COMPANY_NOT_FOUND",
			wantMessage: "The referenced Company does not exist",
		},
		{
			name:        "missing title",
			pgErr:       &pgconn.PgError{Code: "23502", TableName: "jobs", ColumnName: "title"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "JOB_REQUIRED",
			wantMessage: "The Title is required",
		},
		{
			name:        "equity above one",
			pgErr:       &pgconn.PgError{Code: "23514", TableName: "jobs", ConstraintName: "jobs_equity_check"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "JOB_INVALID",
			wantMessage: "The Equity value does not meet required conditions",
		},
		{
			name:        "text sent for an integer column",
			pgErr:       &pgconn.PgError{Code: "22P02", TableName: "companies"},
			wantStatus:  http.StatusBadRequest,
			wantCode:    "COMPANY_INVALID",
			wantMessage: "A value has the wrong type or is out of range for Company",
		},
		{
			name:        "unmapped state",
			pgErr:       &pgconn.PgError{Code: "XX000"},
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "INTERNAL_SERVER_ERROR",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := errors.Wrap(tt.pgErr, "inserting")

			httpErr := requireHTTPError(t, HandleError(wrapped))

			assert.Equal(t, tt.wantStatus, httpErr.Status)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMessage, httpErr.Message)
		})
	}
}

func TestHandleErrorNotNullFieldError(t *testing.T) {
	httpErr := requireHTTPError(t, HandleError(&pgconn.PgError{Code: "23502", TableName: "companies", ColumnName: "name"}))

	require.Len(t, httpErr.Errors, 1)
	assert.Equal(t, errs.FieldError{Field: "name", Error: "is required"}, httpErr.Errors[0])
}

func TestHandleErrorNotFound(t *testing.T) {
	err := errors.Wrapf(pgx.ErrNoRows, "table:companies: no row for %v", "acme")
	httpErr := requireHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Company not found", httpErr.Message)

	httpErr = requireHTTPError(t, HandleError(errors.Wrap(pgx.ErrNoRows, "table:jobs: no row for 7")))
	assert.Equal(t, "Job not found", httpErr.Message)

	httpErr = requireHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorPassesHTTPErrorThrough(t *testing.T) {
	original := errs.NewForbiddenError("nope", true)
	assert.Same(t, original, HandleError(original))
}

func TestHandleErrorUnknown(t *testing.T) {
	httpErr := requireHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestSingular(t *testing.T) {
	assert.Equal(t, "company", singular("companies"))
	assert.Equal(t, "COMPANY", singular("COMPANIES"))
	assert.Equal(t, "job", singular("jobs"))
	assert.Equal(t, "address", singular("address"))
	assert.Equal(t, "record", singular("record"))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "handle", extractColumnForUniqueViolation("companies_handle_key"))
	assert.Equal(t, "name", extractColumnForUniqueViolation("unique_companies_name"))
	assert.Equal(t, "", extractColumnForUniqueViolation("companies_pkey"))
	assert.Equal(t, "", extractColumnForUniqueViolation(""))
}

func TestErrCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, ErrCode(errors.Wrap(&pgconn.PgError{Code: "23505"}, "insert")))
	assert.Equal(t, CheckViolation, ErrCode(ConvertPgError(&pgconn.PgError{Code: "23514"})))
	assert.Equal(t, Other, ErrCode(errors.New("boom")))
}

func TestConvertPgError(t *testing.T) {
	src := &pgconn.PgError{Code: "40P01", Severity: "FATAL", Message: "deadlock detected", TableName: "jobs"}

	converted := ConvertPgError(src)

	assert.Equal(t, DeadlockDetected, converted.Code)
	assert.Equal(t, SeverityFatal, converted.Severity)
	assert.Equal(t, "FATAL 40P01: deadlock detected", converted.Error())
	assert.True(t, errors.Is(converted, src))
	assert.Equal(t, SeverityError, MapSeverity("SOMETHING"))
}
