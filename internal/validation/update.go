package validation

import (
	"math"
	"sort"

	"github.com/deppfellow/jobly/internal/sqlbuild"
	"github.com/shopspring/decimal"
)

// FieldRule checks one value of a partial update and returns a message, or
// "" when the value is acceptable.
type FieldRule func(value any) string

// UpdateRules maps each updatable field to its rule. Fields missing from the
// map are rejected.
type UpdateRules map[string]FieldRule

// ValidateUpdate checks update against rules.
//
// Fields listed in immutable get "cannot be changed", other unknown fields
// "is not allowed". An empty update passes: whether it is an error is the
// fragment builder's call. Field errors come back in the update's order.
func ValidateUpdate(update sqlbuild.UpdateRequest, rules UpdateRules, immutable ...string) error {
	var problems CustomValidationErrors

	for _, a := range update {
		rule, ok := rules[a.Field]
		switch {
		case !ok && contains(immutable, a.Field):
			problems = append(problems, CustomValidationError{Field: a.Field, Message: "cannot be changed"})
		case !ok:
			problems = append(problems, CustomValidationError{Field: a.Field, Message: "is not allowed"})
		default:
			if msg := rule(a.Value); msg != "" {
				problems = append(problems, CustomValidationError{Field: a.Field, Message: msg})
			}
		}
	}

	if len(problems) > 0 {
		return problems
	}
	return nil
}

// AllowedFields lists the keys of rules in sorted order.
func (r UpdateRules) AllowedFields() []string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// NonEmptyString accepts any string except "".
func NonEmptyString(value any) string {
	s, ok := value.(string)
	switch {
	case !ok:
		return "must be a string"
	case s == "":
		return "must not be empty"
	}
	return ""
}

// String accepts any string, including "".
func String(value any) string {
	if _, ok := value.(string); !ok {
		return "must be a string"
	}
	return ""
}

// Nullable lets rule also accept null.
func Nullable(rule FieldRule) FieldRule {
	return func(value any) string {
		if value == nil {
			return ""
		}
		return rule(value)
	}
}

// NonNegativeInt accepts whole numbers that fit an INTEGER column and are >= 0.
func NonNegativeInt(value any) string {
	n, ok := value.(int64)
	switch {
	case !ok:
		return "must be an integer"
	case n < 0:
		return "must be greater than or equal to 0"
	case n > math.MaxInt32:
		return "must be less than or equal to 2147483647"
	}
	return ""
}

// URL accepts strings the validator's url tag accepts.
func URL(value any) string {
	s, ok := value.(string)
	if !ok {
		return "must be a string"
	}
	if err := Validator().Var(s, "url"); err != nil {
		return "must be a valid URL"
	}
	return ""
}

// Fraction accepts a number between 0 and 1 inclusive, sent either as a JSON
// number or as a numeric string ("0.5").
func Fraction(value any) string {
	d, ok := asDecimal(value)
	switch {
	case !ok:
		return "must be a number"
	case d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)):
		return "must be between 0 and 1"
	}
	return ""
}

func asDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case int64:
		return decimal.NewFromInt(v), true
	case decimal.Decimal:
		return v, true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	}
	return decimal.Decimal{}, false
}
