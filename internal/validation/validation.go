// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules defined in struct
// tags, adds the per-field rules for partial updates that tags cannot
// express, and turns every failure into field errors the client can
// understand.
package validation
