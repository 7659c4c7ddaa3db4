package model

import (
	"context"

	"github.com/mickamy/basemodel/orm"
)

// DropdownOption is one entry of a dropdown: the submitted Key and the displayed
// Label.
type DropdownOption struct {
	Key   any
	Label any
}

// Options is an ordered key → label list, e.g. for an HTML select.
type Options []DropdownOption

// Lookup returns the label for key.
func (o Options) Lookup(key any) (any, bool) {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Label, true
		}
	}
	return nil, false
}

// Dropdown returns primary key → value options for every live row.
func (m *Mapper) Dropdown(ctx context.Context, value string) (Options, error) {
	return m.DropdownBy(ctx, m.cfg.PrimaryKey, value)
}

// DropdownBy returns key → value options for every live row in backend
// order. When key repeats, the later label wins and the first position is
// kept.
func (m *Mapper) DropdownBy(ctx context.Context, key, value string) (Options, error) {
	q := m.newQuery()
	m.excludeDeleted(q)
	columns := q.quoteColumns([]string{key, value})
	if key == value {
		columns = q.qi(key)
	}
	q.ApplySelect(columns)
	query, args := q.buildSelect(m.cfg.Table)

	maps, err := orm.QueryMaps(ctx, m.db, query, args...)
	if err != nil {
		return nil, err
	}

	opts := make(Options, 0, len(maps))
	index := make(map[any]int, len(maps))
	for _, row := range maps {
		k := row[key]
		if i, ok := index[k]; ok {
			opts[i].Label = row[value]
			continue
		}
		index[k] = len(opts)
		opts = append(opts, DropdownOption{Key: k, Label: row[value]})
	}
	return opts, nil
}
