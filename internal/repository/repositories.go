// Package repository handles all interactions with the database.
//
// It contains the SQL for companies and jobs and the methods that fetch,
// persist, update or delete them, keeping SQL away from the service layer.
//
// Fixed statements are assembled with Squirrel; the dynamic parts (partial
// updates, list filters) come from the sqlbuild package and are spliced into
// fixed templates.
package repository

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// Querier is the subset of pgx used by repositories.
//
// Both *pgxpool.Pool and pgx.Tx satisfy it, so a repository can run on the
// pool or inside a transaction without changes.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql is the shared Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repositories is a container for all repository instances.
type Repositories struct {
	Company *CompanyRepository
	Job     *JobRepository
}

// NewRepositories constructs the repository container on top of the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Company: NewCompanyRepository(s.DB.Pool),
		Job:     NewJobRepository(s.DB.Pool),
	}
}

// notFound reports a missing row.
//
// The "table:<name>:" prefix is how sqlerr.HandleError learns which entity
// was missing; it turns this into a 404 "<Entity> not found".
func notFound(table string, key any) error {
	return errors.Wrapf(pgx.ErrNoRows, "table:%s: no row for %v", table, key)
}

// joinSQL joins non-empty statement parts with single spaces.
func joinSQL(parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}

// returning renders a RETURNING clause for the given columns.
func returning(columns []string) string {
	return fmt.Sprintf("RETURNING %s", joinColumns(columns))
}
