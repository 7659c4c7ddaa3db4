package model

import (
	"context"

	"github.com/mickamy/basemodel/orm"
	"github.com/mickamy/basemodel/scope"
)

// Count returns the number of rows matching conds. Unlike the other read
// operations it does not skip soft-deleted rows; add
// scope.Eq(m.SoftDeleteColumn(), false) to count live rows only.
func (m *Mapper) Count(ctx context.Context, conds ...scope.Scope) (int64, error) {
	q := m.newQuery()
	q.apply(conds)
	query, args := q.buildCount(m.cfg.Table)

	var n int64
	if err := orm.QueryScalar(ctx, m.db, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}

// Min returns a single row holding MIN(field) under alias (field when alias
// is empty).
func (m *Mapper) Min(ctx context.Context, field, alias string) (Row, error) {
	return m.aggregate(ctx, "MIN", field, alias)
}

// Max returns a single row holding MAX(field) under alias.
func (m *Mapper) Max(ctx context.Context, field, alias string) (Row, error) {
	return m.aggregate(ctx, "MAX", field, alias)
}

// Avg returns a single row holding AVG(field) under alias.
func (m *Mapper) Avg(ctx context.Context, field, alias string) (Row, error) {
	return m.aggregate(ctx, "AVG", field, alias)
}

// Sum returns a single row holding SUM(field) under alias.
func (m *Mapper) Sum(ctx context.Context, field, alias string) (Row, error) {
	return m.aggregate(ctx, "SUM", field, alias)
}

func (m *Mapper) aggregate(ctx context.Context, fn, field, alias string) (Row, error) {
	if alias == "" {
		alias = field
	}
	q := m.newQuery()
	m.excludeDeleted(q)
	query, args := q.buildAggregate(m.cfg.Table, fn, field, alias)

	maps, err := orm.QueryMaps(ctx, m.db, query, args...)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return Row{alias: nil}, nil
	}
	return Row(maps[0]), nil
}

// Truncate removes every row and resets the auto-increment counter.
func (m *Mapper) Truncate(ctx context.Context) error {
	return orm.Truncate(ctx, m.db, m.cfg.Table)
}

// NextID returns the value the next auto-increment insert will receive.
func (m *Mapper) NextID(ctx context.Context) (int64, error) {
	return orm.NextID(ctx, m.db, m.cfg.Table, m.cfg.PrimaryKey)
}
