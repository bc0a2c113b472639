// Package service contains the business logic.
//
// It sits between the handler and repository layers: it receives
// validated requests from handlers, calls the repositories and turns
// their errors into API errors (via sqlerr and the fragment errors).
package service
