package model

import "errors"

var (
	// ErrBatchAborted is returned by BatchCreate when the transaction was
	// rolled back. No row of the batch has been persisted.
	ErrBatchAborted = errors.New("model: batch aborted")

	// ErrMissingConditions is returned by UpdateWhere and DeleteWhere when
	// called without any condition. Use UpdateAll or Truncate to touch every row.
	ErrMissingConditions = errors.New("model: missing conditions")

	// ErrUnknownModel is returned when a relationship target or a registry
	// lookup names a model that has not been registered.
	ErrUnknownModel = errors.New("model: unknown model")

	// ErrNoPrimaryKey is returned when an operation needs the primary key of a
	// row that does not carry it.
	ErrNoPrimaryKey = errors.New("model: row has no primary key")
)

// ErrInvalid is returned by Validate when a column breaks its rule.
var ErrInvalid = errors.New("model: invalid data")
