package sqlbuild

import (
	"fmt"

	"github.com/pkg/errors"
)

// Filterable columns. Identifiers are fixed here, never taken from input.
const (
	columnName         = "name"
	columnNumEmployees = "num_employees"
	columnTitle        = "title"
	columnSalary       = "salary"
	columnEquity       = "equity"
)

// CompanyFilter holds the optional predicates for listing companies.
// A nil field means the predicate is absent.
type CompanyFilter struct {
	NameLike     *string
	MinEmployees *int
	MaxEmployees *int
}

// JobFilter holds the optional predicates for listing jobs.
type JobFilter struct {
	Title     *string
	MinSalary *int
	HasEquity *bool
}

// BuildCompanyFilter renders f as a WHERE clause.
//
// Terms appear in a fixed order: case-insensitive name match, then the employee
// count range. When both bounds are given they must satisfy min < max, otherwise
// ErrInvalidRange is returned. No predicates yields an empty Fragment.
func BuildCompanyFilter(f CompanyFilter) (Fragment, error) {
	var c clause

	if f.NameLike != nil {
		c.add(quoteIdent(columnName) + " ILIKE " + c.bind(containsPattern(*f.NameLike)))
	}

	switch {
	case f.MinEmployees != nil && f.MaxEmployees != nil:
		if *f.MinEmployees >= *f.MaxEmployees {
			return Fragment{}, errors.Wrapf(ErrInvalidRange,
				"employee range %d..%d", *f.MinEmployees, *f.MaxEmployees)
		}
		low := c.bind(*f.MinEmployees)
		high := c.bind(*f.MaxEmployees)
		c.add(fmt.Sprintf("%s BETWEEN %s AND %s", quoteIdent(columnNumEmployees), low, high))
	case f.MinEmployees != nil:
		c.add(quoteIdent(columnNumEmployees) + " >= " + c.bind(*f.MinEmployees))
	case f.MaxEmployees != nil:
		c.add(quoteIdent(columnNumEmployees) + " <= " + c.bind(*f.MaxEmployees))
	}

	return c.where(), nil
}

// BuildJobFilter renders f as a WHERE clause.
//
// Terms appear in a fixed order: positive equity (only when HasEquity is true),
// case-insensitive title match, minimum salary. No predicates yields an empty Fragment.
func BuildJobFilter(f JobFilter) Fragment {
	var c clause

	if f.HasEquity != nil && *f.HasEquity {
		c.add(quoteIdent(columnEquity) + " > 0")
	}
	if f.Title != nil {
		c.add(quoteIdent(columnTitle) + " ILIKE " + c.bind(containsPattern(*f.Title)))
	}
	if f.MinSalary != nil {
		c.add(quoteIdent(columnSalary) + " >= " + c.bind(*f.MinSalary))
	}

	return c.where()
}
