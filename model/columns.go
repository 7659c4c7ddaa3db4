package model

import (
	"context"
	"sync"

	"github.com/mickamy/basemodel/orm"
)

// schemaCache holds the live column set of each table, introspected once.
type schemaCache struct {
	mu     sync.Mutex
	tables map[string]map[string]struct{}
}

func newSchemaCache() *schemaCache {
	return &schemaCache{tables: make(map[string]map[string]struct{})}
}

func (c *schemaCache) columns(ctx context.Context, db orm.Querier, table string) (map[string]struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if cols, ok := c.tables[table]; ok {
		return cols, nil
	}
	names, err := orm.Columns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	cols := make(map[string]struct{}, len(names))
	for _, n := range names {
		cols[n] = struct{}{}
	}
	c.tables[table] = cols
	return cols, nil
}

// whitelist drops the keys of data that are not live columns of the table.
// Columns come back in lexical order.
func (m *Mapper) whitelist(ctx context.Context, data Row) ([]string, []any, error) {
	live, err := m.schema.columns(ctx, m.db, m.cfg.Table)
	if err != nil {
		return nil, nil, err
	}
	var cols []string
	var vals []any
	for _, k := range data.sortedKeys() {
		if _, ok := live[k]; ok {
			cols = append(cols, k)
			vals = append(vals, data[k])
		}
	}
	return cols, vals, nil
}

// HasColumn reports whether column is a live column of the mapper's table.
func (m *Mapper) HasColumn(ctx context.Context, column string) (bool, error) {
	live, err := m.schema.columns(ctx, m.db, m.cfg.Table)
	if err != nil {
		return false, err
	}
	_, ok := live[column]
	return ok, nil
}
