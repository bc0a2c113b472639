package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/deppfellow/jobly/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrCode reports the Code of err.
//
// Raw *pgconn.PgError values in the chain are mapped on the fly, so callers
// need not convert first. Anything else is Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		return MapCode(pgerr.Code)
	}
	return Other
}

// ConvertPgError normalizes a raw PostgreSQL error, keeping the original for Unwrap.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// singular turns a plural table name into its entity name:
// "companies" -> "company", "jobs" -> "job".
func singular(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "ies") && len(name) > 3:
		return name[:len(name)-3] + matchCase(name[len(name)-3:], "y")
	case strings.HasSuffix(lower, "ss"):
		return name
	case strings.HasSuffix(lower, "s") && len(name) > 1:
		return name[:len(name)-1]
	}
	return name
}

// matchCase returns repl upper-cased when ref is upper case.
func matchCase(ref, repl string) string {
	if ref == strings.ToUpper(ref) {
		return strings.ToUpper(repl)
	}
	return repl
}

// generateErrorCode builds a machine-readable code of the form <DOMAIN>_<ACTION>:
//
//	companies + UniqueViolation => COMPANY_ALREADY_EXISTS
//	company   + ForeignKeyViolation => COMPANY_NOT_FOUND
func generateErrorCode(entity string, errType Code) string {
	if entity == "" {
		entity = "RECORD"
	}

	domain := strings.ToUpper(strings.ReplaceAll(singular(entity), " ", "_"))

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation, InvalidTextRepresentation, NumericValueOutOfRange, DatatypeMismatch:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

// formatUserFriendlyMessage produces the message shown to API clients.
func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		// "The referenced Company does not exist"
		return fmt.Sprintf("The referenced %s does not exist", referencedEntity(sqlErr))

	case UniqueViolation:
		// "identifier" is replaced by the column when the constraint name reveals it.
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		// "The Equity value does not meet required conditions"
		fieldName := humanizeText(checkedColumn(sqlErr))
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	case InvalidTextRepresentation, NumericValueOutOfRange, DatatypeMismatch:
		return fmt.Sprintf("A value has the wrong type or is out of range for %s", entityName)

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName infers the entity an error is about.
//
// A column like "company_id" names the entity directly; otherwise the table
// name is singularized ("companies" -> "Company"). Falls back to "record".
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		return humanizeText(singular(tableName))
	}

	return "record"
}

var (
	uniqueConstraintPattern = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)
	foreignKeyPattern       = regexp.MustCompile(`^(.+)_fkey$`)
	checkConstraintPattern  = regexp.MustCompile(`^(.+)_check$`)
)

// referencedEntity names the parent of a foreign key.
//
// Postgres names FK constraints "<table>_<column>_fkey"; the column's
// "_id" or "_handle" suffix is dropped, so jobs_company_handle_fkey on jobs
// gives "Company".
func referencedEntity(sqlErr *Error) string {
	column := sqlErr.ColumnName
	if column == "" {
		if m := foreignKeyPattern.FindStringSubmatch(sqlErr.ConstraintName); m != nil {
			column = strings.TrimPrefix(m[1], sqlErr.TableName+"_")
		}
	}
	if column == "" {
		return "record"
	}

	for _, suffix := range []string{"_id", "_handle"} {
		column = strings.TrimSuffix(column, suffix)
	}
	return humanizeText(column)
}

// checkedColumn returns the column of a CHECK violation, reading the
// "<table>_<column>_check" constraint name when the server sent no column.
func checkedColumn(sqlErr *Error) string {
	if sqlErr.ColumnName != "" {
		return sqlErr.ColumnName
	}
	if m := checkConstraintPattern.FindStringSubmatch(sqlErr.ConstraintName); m != nil {
		return strings.TrimPrefix(m[1], sqlErr.TableName+"_")
	}
	return ""
}

// humanizeText converts snake_case into Title Case: "num_employees" -> "Num Employees".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a unique constraint name.
//
// Two conventions are understood:
//
//	unique_<table>_<column>           unique_companies_name -> "name"
//	<table>_<column>_(key|ukey)       companies_handle_key  -> "handle"
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	if matches := uniqueConstraintPattern.FindStringSubmatch(constraintName); len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// HandleError converts a database error into an *errs.HTTPError.
//
//   - *errs.HTTPError passes through unchanged
//   - constraint and data errors become 400s with a generated code
//   - pgx.ErrNoRows / sql.ErrNoRows become 404s, naming the entity when the
//     error carries a "table:<name>:" marker
//   - everything else is a 500 that leaks no details
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		sqlErr := ConvertPgError(pgerr)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			errorCode := generateErrorCode(referencedEntity(sqlErr), sqlErr.Code)
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case UniqueViolation:
			errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
			if columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName); columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation, InvalidTextRepresentation, NumericValueOutOfRange, DatatypeMismatch:
			// Partial updates pass values through verbatim, so a string sent
			// for numEmployees is only caught here, by Postgres.
			errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		// Repositories wrap ErrNoRows as "table:<name>: ..." so the entity
		// can be named in the message.
		errMsg := err.Error()
		const tablePrefix = "table:"
		if _, rest, found := strings.Cut(errMsg, tablePrefix); found {
			table, _, _ := strings.Cut(rest, ":")
			entityName := getEntityName(table, "")
			return errs.NewNotFoundError(fmt.Sprintf("%s not found", entityName), true, nil)
		}
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
