package sqlbuild

import "github.com/pkg/errors"

var (
	// ErrEmptyUpdate is returned when an update request names no fields.
	ErrEmptyUpdate = errors.New("no data to update")

	// ErrInvalidRange is returned when a filter's lower bound is not below its upper bound.
	ErrInvalidRange = errors.New("minimum must be less than maximum")
)
