package orm

import (
	"context"
	"database/sql"
	"fmt"
)

// Columns returns the live column names of table in ordinal order.
func Columns(ctx context.Context, db Querier, table string) ([]string, error) {
	stmt := db.Dialect().ColumnsQuery(table)
	rows, err := db.QueryContext(ctx, Rebind(db.Dialect(), stmt.SQL), stmt.Args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoColumns, table)
	}
	return cols, nil
}

// NextID returns the value the next auto-increment insert into table will
// receive.
func NextID(ctx context.Context, db Querier, table, pk string) (int64, error) {
	stmt := db.Dialect().NextIDQuery(table, pk)
	var id sql.NullInt64
	if err := QueryScalar(ctx, db, &id, stmt.SQL, stmt.Args...); err != nil {
		return 0, err
	}
	if !id.Valid {
		return 0, fmt.Errorf("orm: no auto-increment counter for %s", table)
	}
	return id.Int64, nil
}

// Truncate removes every row of table and resets its auto-increment counter.
func Truncate(ctx context.Context, db Querier, table string) error {
	for _, stmt := range db.Dialect().TruncateStatements(table) {
		if _, err := Exec(ctx, db, stmt.SQL, stmt.Args...); err != nil {
			return err
		}
	}
	return nil
}
