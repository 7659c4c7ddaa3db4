package model

import (
	"context"

	"github.com/mickamy/basemodel/orm"
	"github.com/mickamy/basemodel/scope"
)

// Get returns the rows matching conds in backend order, skipping soft-deleted
// rows, with requested relationships attached. Pass scope.With to load
// relationships for this call only.
func (m *Mapper) Get(ctx context.Context, conds ...scope.Scope) ([]Row, error) {
	q := m.newQuery()
	m.excludeDeleted(q)
	q.apply(conds)
	return m.fetchMany(ctx, q)
}

// Find returns the row with the given primary key, or nil if there is none
// (or it is soft-deleted).
func (m *Mapper) Find(ctx context.Context, id any, conds ...scope.Scope) (Row, error) {
	q := m.newQuery()
	m.excludeDeleted(q)
	q.ApplyEq(m.cfg.PrimaryKey, id)
	q.apply(conds)
	return m.fetchOne(ctx, q)
}

// All returns every row that is not soft-deleted.
func (m *Mapper) All(ctx context.Context) ([]Row, error) {
	return m.Get(ctx)
}

func (m *Mapper) fetchMany(ctx context.Context, q *builder) ([]Row, error) {
	query, args := q.buildSelect(m.cfg.Table)
	maps, err := orm.QueryMaps(ctx, m.db, query, args...)
	if err != nil {
		return nil, err
	}
	rows := toRows(maps)
	if err := m.hydrate(ctx, rows, q.includes); err != nil {
		return nil, err
	}
	return rows, nil
}

func (m *Mapper) fetchOne(ctx context.Context, q *builder) (Row, error) {
	q.ApplyLimit(1)
	q.offset = nil
	rows, err := m.fetchMany(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
