package orm

import "errors"

// ErrNotFound is returned when a query expects exactly one row but finds none.
var ErrNotFound = errors.New("orm: not found")

// ErrNoColumns is returned by Columns when the table does not exist or
// exposes no columns.
var ErrNoColumns = errors.New("orm: table has no columns")
