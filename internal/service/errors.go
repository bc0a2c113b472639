package service

import (
	"context"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/deppfellow/jobly/internal/sqlerr"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Error codes for failures the database never sees.
const (
	CodeNoUpdateFields       = "NO_UPDATE_FIELDS"
	CodeInvalidEmployeeRange = "INVALID_EMPLOYEE_RANGE"
	CodeImmutableField       = "IMMUTABLE_FIELD"
)

// translateError maps repository errors to *errs.HTTPError.
//
// Errors from the fragment builders are caller mistakes and become 400s;
// database errors go through sqlerr.HandleError. Anything that ends up as a
// 500 is logged here with its cause, since the response will not carry it.
func translateError(ctx context.Context, err error, action string) error {
	var httpErr *errs.HTTPError

	switch {
	case errors.Is(err, sqlbuild.ErrEmptyUpdate):
		code := CodeNoUpdateFields
		httpErr = errs.NewBadRequestError("No data to update", true, &code, nil, nil)

	case errors.Is(err, sqlbuild.ErrInvalidRange):
		code := CodeInvalidEmployeeRange
		httpErr = errs.NewBadRequestError(
			"minEmployees must be less than maxEmployees", true, &code,
			[]errs.FieldError{{Field: "minEmployees", Error: "must be less than maxEmployees"}},
			nil,
		)

	default:
		if !errors.As(sqlerr.HandleError(err), &httpErr) {
			httpErr = errs.NewInternalServerError()
		}
	}

	if httpErr.Status >= 500 {
		zerolog.Ctx(ctx).Error().Err(err).Str("action", action).Msg("unexpected repository error")
	}
	return httpErr
}
