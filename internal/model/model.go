// Package model holds the resources the API stores and returns.
//
// JSON names match the public API (camelCase); `db` tags name the storage columns.
package model
