package model

import "sort"

// Row is one table record keyed by column name. Hydrated relationships are
// stored under the relationship name: a Row (or nil) for belongs-to, a []Row
// for has-many.
type Row map[string]any

func toRows(maps []map[string]any) []Row {
	rows := make([]Row, len(maps))
	for i, m := range maps {
		rows[i] = Row(m)
	}
	return rows
}

// sortedKeys returns the keys of r in lexical order so that generated SQL
// is stable.
func (r Row) sortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
