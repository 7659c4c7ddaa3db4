package orm

import (
	"fmt"
	"strings"
)

// Statement is a query and its bind arguments, written with ? placeholders.
type Statement struct {
	SQL  string
	Args []any
}

// Dialect abstracts SQL differences between database engines.
type Dialect interface {
	// Name returns the dialect name: "mysql", "postgres" or "sqlite".
	Name() string

	// Placeholder returns the bind parameter placeholder for the given
	// 1-based index. MySQL and SQLite return "?" regardless of index;
	// PostgreSQL returns "$1", "$2", etc.
	Placeholder(index int) string

	// QuoteIdent quotes an identifier (table name, column name) to safely
	// handle SQL reserved words. MySQL uses backticks; PostgreSQL and
	// SQLite use double quotes.
	QuoteIdent(name string) string

	// UseReturning reports whether INSERT should use a RETURNING clause
	// to retrieve the auto-generated primary key (PostgreSQL) rather
	// than relying on LastInsertId (MySQL, SQLite).
	UseReturning() bool

	// ReturningClause returns the RETURNING clause appended to INSERT
	// statements. Returns an empty string for dialects that do not
	// use RETURNING.
	ReturningClause(pk string) string

	// DefaultValues returns the tail of an INSERT that sets no columns.
	DefaultValues() string

	// ColumnsQuery returns a query yielding one column name per row for
	// the given table.
	ColumnsQuery(table string) Statement

	// NextIDQuery returns a query yielding the next auto-increment value
	// of the table as a single row with a single column.
	NextIDQuery(table, pk string) Statement

	// TruncateStatements returns the statements that empty the table and
	// reset its auto-increment counter.
	TruncateStatements(table string) []Statement
}

// MySQL is the Dialect for MySQL / MariaDB.
var MySQL Dialect = mysqlDialect{}

// PostgreSQL is the Dialect for PostgreSQL.
var PostgreSQL Dialect = postgresDialect{}

// SQLite is the Dialect for SQLite 3.
var SQLite Dialect = sqliteDialect{}

type mysqlDialect struct{}

func (mysqlDialect) Name() string                    { return "mysql" }
func (mysqlDialect) Placeholder(_ int) string        { return "?" }
func (mysqlDialect) QuoteIdent(name string) string   { return "`" + name + "`" }
func (mysqlDialect) UseReturning() bool              { return false }
func (mysqlDialect) ReturningClause(_ string) string { return "" }
func (mysqlDialect) DefaultValues() string           { return "() VALUES ()" }

func (mysqlDialect) ColumnsQuery(table string) Statement {
	return Statement{
		SQL:  "SELECT COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION",
		Args: []any{table},
	}
}

func (mysqlDialect) NextIDQuery(table, _ string) Statement {
	return Statement{
		SQL:  "SELECT AUTO_INCREMENT FROM information_schema.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?",
		Args: []any{table},
	}
}

func (d mysqlDialect) TruncateStatements(table string) []Statement {
	return []Statement{{SQL: "TRUNCATE TABLE " + d.QuoteIdent(table)}}
}

type postgresDialect struct{}

func (postgresDialect) Name() string                     { return "postgres" }
func (postgresDialect) Placeholder(index int) string     { return fmt.Sprintf("$%d", index) }
func (postgresDialect) QuoteIdent(name string) string    { return `"` + name + `"` }
func (postgresDialect) UseReturning() bool               { return true }
func (postgresDialect) ReturningClause(pk string) string { return ` RETURNING "` + pk + `"` }
func (postgresDialect) DefaultValues() string            { return "DEFAULT VALUES" }

func (postgresDialect) ColumnsQuery(table string) Statement {
	return Statement{
		SQL:  "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position",
		Args: []any{table},
	}
}

// NextIDQuery reads the serial sequence backing pk. A sequence that was
// never called reports its start value.
func (postgresDialect) NextIDQuery(table, pk string) Statement {
	return Statement{
		SQL: "SELECT COALESCE(last_value + increment_by, start_value) FROM pg_sequences " +
			"WHERE schemaname || '.' || sequencename = pg_get_serial_sequence(?, ?)",
		Args: []any{table, pk},
	}
}

func (d postgresDialect) TruncateStatements(table string) []Statement {
	return []Statement{{SQL: "TRUNCATE TABLE " + d.QuoteIdent(table) + " RESTART IDENTITY"}}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string                    { return "sqlite" }
func (sqliteDialect) Placeholder(_ int) string        { return "?" }
func (sqliteDialect) QuoteIdent(name string) string   { return `"` + name + `"` }
func (sqliteDialect) UseReturning() bool              { return false }
func (sqliteDialect) ReturningClause(_ string) string { return "" }
func (sqliteDialect) DefaultValues() string           { return "DEFAULT VALUES" }

func (sqliteDialect) ColumnsQuery(table string) Statement {
	return Statement{SQL: "SELECT name FROM pragma_table_info(?) ORDER BY cid", Args: []any{table}}
}

// NextIDQuery requires the table to be declared with AUTOINCREMENT.
func (sqliteDialect) NextIDQuery(table, _ string) Statement {
	return Statement{
		SQL:  "SELECT COALESCE((SELECT seq FROM sqlite_sequence WHERE name = ?), 0) + 1",
		Args: []any{table},
	}
}

// TruncateStatements deletes every row, then resets the AUTOINCREMENT
// counter. SQLite has no TRUNCATE.
func (d sqliteDialect) TruncateStatements(table string) []Statement {
	return []Statement{
		{SQL: "DELETE FROM " + d.QuoteIdent(table)},
		{SQL: "DELETE FROM sqlite_sequence WHERE name = ?", Args: []any{table}},
	}
}

// Rebind converts ? placeholders to dialect-specific placeholders.
// For MySQL and SQLite this is a no-op. For PostgreSQL, ? becomes $1, $2, etc.
// A ? inside a quoted literal or identifier is left alone; the jsonb ?
// operator cannot be written bare and needs jsonb_exists instead.
func Rebind(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}

	var b strings.Builder
	b.Grow(len(query))
	idx := 1
	var quote byte
	for i := range len(query) {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == '?':
			b.WriteString(d.Placeholder(idx))
			idx++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
