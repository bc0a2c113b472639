// Package errs defines the error shape every API response uses.
//
// Handlers and services return *HTTPError values (directly or via
// sqlerr.HandleError); the global error handler serializes them as JSON so
// clients always get a code, a message, a status and, for invalid input,
// the list of offending fields.
package errs
