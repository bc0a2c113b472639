// Package sqlbuild composes the dynamic parts of SQL statements.
//
// It turns sparse update payloads and optional filter predicates into
// parameterized SQL text plus the ordered values bound to its placeholders,
// so repositories can splice them into fixed query templates.
//
// Rules the package keeps:
//   - Placeholders are PostgreSQL style ($1, $2, ...), 1-based and contiguous.
//   - Identifiers come only from static, trusted vocabularies and are quoted.
//   - Values never appear in the SQL text; they travel in Fragment.Values.
//
// Everything here is a pure function of its input, safe for concurrent use.
package sqlbuild

import (
	"strconv"
	"strings"
)

// Fragment is a piece of SQL text together with the values its placeholders refer to.
//
// Values[i] is bound to placeholder $(i+1).
type Fragment struct {
	Text   string
	Values []any
}

// Empty reports whether the fragment carries no SQL text.
// An empty filter fragment means "no filtering".
func (f Fragment) Empty() bool {
	return f.Text == ""
}

// NextPlaceholder returns the placeholder that follows the fragment's own values.
//
// Repositories use it to append their own parameters (e.g. the row key of an UPDATE)
// after the fragment without clashing with its numbering.
func (f Fragment) NextPlaceholder() string {
	return placeholder(len(f.Values) + 1)
}

// placeholder renders the n-th positional parameter marker.
func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// quoteIdent wraps an identifier in double quotes, doubling embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// likeEscaper escapes LIKE metacharacters using PostgreSQL's default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an unanchored LIKE pattern matching s literally.
//
// Example:
//
//	"50%_off" -> "%50\%\_off%"
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// clause accumulates predicate terms and the values they bind.
type clause struct {
	terms  []string
	values []any
}

// bind records v and returns the placeholder that refers to it.
func (c *clause) bind(v any) string {
	c.values = append(c.values, v)
	return placeholder(len(c.values))
}

func (c *clause) add(term string) {
	c.terms = append(c.terms, term)
}

// where renders the accumulated terms as a WHERE clause.
// No terms means no clause at all, never a bare "WHERE".
func (c *clause) where() Fragment {
	if len(c.terms) == 0 {
		return Fragment{}
	}
	return Fragment{
		Text:   "WHERE " + strings.Join(c.terms, " AND "),
		Values: c.values,
	}
}
