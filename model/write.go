package model

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mickamy/basemodel/orm"
	"github.com/mickamy/basemodel/scope"
)

// Create inserts data and returns the identifier of the new row. Keys that
// are not live columns of the table are dropped.
func (m *Mapper) Create(ctx context.Context, data Row) (any, error) {
	columns, values, err := m.whitelist(ctx, data)
	if err != nil {
		return nil, err
	}

	var key any
	if m.cfg.Keys == KeyUUID {
		if i := slices.Index(columns, m.cfg.PrimaryKey); i >= 0 {
			key = values[i]
		} else {
			key = uuid.NewString()
			columns = append(columns, m.cfg.PrimaryKey)
			values = append(values, key)
		}
	}

	q := m.newQuery()
	query := q.buildInsert(m.cfg.Table, columns)

	d := m.db.Dialect()
	if d.UseReturning() && key == nil {
		var id any
		if err := orm.QueryScalar(ctx, m.db, &id, query+d.ReturningClause(m.cfg.PrimaryKey), values...); err != nil {
			if errors.Is(err, orm.ErrNotFound) {
				return nil, errors.New("model: INSERT RETURNING returned no rows")
			}
			return nil, err
		}
		return id, nil
	}

	result, err := orm.Exec(ctx, m.db, query, values...)
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err //nolint:wrapcheck // pass through
	}
	return id, nil
}

// transactor is implemented by *orm.DB.
type transactor interface {
	Transaction(ctx context.Context, fn func(tx *orm.Tx) error) error
}

// BatchCreate inserts every row in one transaction and returns the new
// identifiers in input order. If any insert fails the whole batch is rolled
// back and the error wraps ErrBatchAborted. On a querier that cannot start a
// transaction (an *orm.Tx) the inserts join the surrounding transaction.
func (m *Mapper) BatchCreate(ctx context.Context, rows []Row) ([]any, error) {
	var ids []any
	run := func(db orm.Querier) error {
		ids = make([]any, 0, len(rows))
		scoped := m.Using(db)
		for _, row := range rows {
			id, err := scoped.Create(ctx, row)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	}

	var err error
	if t, ok := m.db.(transactor); ok {
		err = t.Transaction(ctx, func(tx *orm.Tx) error { return run(tx) })
	} else {
		err = run(m.db)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatchAborted, err)
	}
	return ids, nil
}

// Update sets the live columns of data on the row with the given primary
// key. Keys that are not columns are dropped; if none remain nothing is
// executed.
func (m *Mapper) Update(ctx context.Context, id any, data Row) error {
	columns, values, err := m.whitelist(ctx, data)
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		return nil
	}
	q := m.newQuery()
	q.ApplyEq(m.cfg.PrimaryKey, id)
	return m.exec(ctx, q.buildUpdate(m.cfg.Table, columns, values))
}

// BatchUpdate sets data on every row whose primary key is in ids. data is
// written as given, without column filtering.
func (m *Mapper) BatchUpdate(ctx context.Context, ids []any, data Row) error {
	if len(ids) == 0 || len(data) == 0 {
		return nil
	}
	q := m.newQuery()
	q.ApplyIn(m.cfg.PrimaryKey, ids)
	return m.set(ctx, q, data)
}

// UpdateWhere sets data on every row matching conds. Use scope.Where for a
// raw condition and scope.Eq for a column/value pair. At least one
// condition is required.
func (m *Mapper) UpdateWhere(ctx context.Context, data Row, conds ...scope.Scope) error {
	q := m.newQuery()
	q.apply(conds)
	if len(q.wheres) == 0 {
		return ErrMissingConditions
	}
	if len(data) == 0 {
		return nil
	}
	return m.set(ctx, q, data)
}

// UpdateAll sets data on every row of the table.
func (m *Mapper) UpdateAll(ctx context.Context, data Row) error {
	if len(data) == 0 {
		return nil
	}
	return m.set(ctx, m.newQuery(), data)
}

// Delete removes the row with the given primary key, or flags it when soft
// delete is enabled. Deleting a missing row is not an error.
func (m *Mapper) Delete(ctx context.Context, id any) error {
	q := m.newQuery()
	q.ApplyEq(m.cfg.PrimaryKey, id)
	return m.remove(ctx, q)
}

// DeleteWhere removes (or flags) every row matching conds. At least one
// condition is required.
func (m *Mapper) DeleteWhere(ctx context.Context, conds ...scope.Scope) error {
	q := m.newQuery()
	q.apply(conds)
	if len(q.wheres) == 0 {
		return ErrMissingConditions
	}
	return m.remove(ctx, q)
}

// BatchDelete removes (or flags) every row whose primary key is in ids.
func (m *Mapper) BatchDelete(ctx context.Context, ids []any) error {
	if len(ids) == 0 {
		return nil
	}
	q := m.newQuery()
	q.ApplyIn(m.cfg.PrimaryKey, ids)
	return m.remove(ctx, q)
}

func (m *Mapper) remove(ctx context.Context, q *builder) error {
	if m.cfg.SoftDelete {
		return m.exec(ctx, q.buildUpdate(m.cfg.Table, []string{m.cfg.SoftDeleteColumn}, []any{true}))
	}
	return m.exec(ctx, q.buildDelete(m.cfg.Table))
}

func (m *Mapper) set(ctx context.Context, q *builder, data Row) error {
	keys := data.sortedKeys()
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = data[k]
	}
	return m.exec(ctx, q.buildUpdate(m.cfg.Table, keys, values))
}

func (m *Mapper) exec(ctx context.Context, stmt orm.Statement) error {
	_, err := orm.Exec(ctx, m.db, stmt.SQL, stmt.Args...)
	return err
}
