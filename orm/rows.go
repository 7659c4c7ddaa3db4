package orm

import (
	"context"
	"database/sql"
)

// QueryMaps executes query and scans every row into a map keyed by column
// name. Driver []byte values are converted to string.
func QueryMaps(ctx context.Context, db Querier, query string, args ...any) ([]map[string]any, error) {
	rows, err := db.QueryContext(ctx, Rebind(db.Dialect(), query), args...)
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()
	return ScanMaps(rows)
}

// ScanMaps reads all remaining rows into maps keyed by column name.
func ScanMaps(rows *sql.Rows) ([]map[string]any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err //nolint:wrapcheck // pass through
		}
		m := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				m[col] = string(b)
				continue
			}
			m[col] = values[i]
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	return result, nil
}

// QueryScalar executes query and scans the first column of the first row
// into dest. Returns ErrNotFound if the query yields no rows.
func QueryScalar(ctx context.Context, db Querier, dest any, query string, args ...any) error {
	rows, err := db.QueryContext(ctx, Rebind(db.Dialect(), query), args...)
	if err != nil {
		return err //nolint:wrapcheck // pass through
	}
	defer func() { _ = rows.Close() }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err //nolint:wrapcheck // pass through
		}
		return ErrNotFound
	}
	if err := rows.Scan(dest); err != nil {
		return err //nolint:wrapcheck // pass through
	}
	return rows.Err() //nolint:wrapcheck // pass through
}

// Exec rebinds query for the dialect of db and executes it.
func Exec(ctx context.Context, db Querier, query string, args ...any) (sql.Result, error) {
	return db.ExecContext(ctx, Rebind(db.Dialect(), query), args...) //nolint:wrapcheck // pass through
}
