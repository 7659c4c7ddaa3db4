package model

import (
	"fmt"
	"strings"

	"github.com/mickamy/basemodel/orm"
	"github.com/mickamy/basemodel/scope"
)

// builder collects the clauses of a single statement. Placeholders are
// written as ? and rebound per dialect when executed.
type builder struct {
	d orm.Dialect

	wheres   []whereClause
	orderBys []string
	selects  *string
	limit    *int
	offset   *int
	includes []string
}

type whereClause struct {
	clause string
	args   []any
}

// clone returns a shallow copy with slices copied to avoid aliasing.
func (q builder) clone() builder {
	q2 := q
	q2.wheres = append([]whereClause(nil), q.wheres...)
	q2.orderBys = append([]string(nil), q.orderBys...)
	q2.includes = append([]string(nil), q.includes...)
	return q2
}

// --- scope.Applier implementation ---

func (q *builder) ApplyWhere(clause string, args []any) {
	q.wheres = append(q.wheres, whereClause{clause, args})
}

func (q *builder) ApplyEq(column string, value any) {
	if value == nil {
		q.wheres = append(q.wheres, whereClause{q.qi(column) + " IS NULL", nil})
		return
	}
	q.wheres = append(q.wheres, whereClause{q.qi(column) + " = ?", []any{value}})
}

// ApplyIn matches nothing for an empty values slice.
func (q *builder) ApplyIn(column string, values []any) {
	if len(values) == 0 {
		q.wheres = append(q.wheres, whereClause{"1 = 0", nil})
		return
	}
	placeholders := make([]string, len(values))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	q.wheres = append(q.wheres, whereClause{q.qi(column) + " IN (" + strings.Join(placeholders, ", ") + ")", values})
}

func (q *builder) ApplyOrderBy(clause string) {
	q.orderBys = append(q.orderBys, clause)
}

func (q *builder) ApplyLimit(n int)  { q.limit = &n }
func (q *builder) ApplyOffset(n int) { q.offset = &n }

func (q *builder) ApplySelect(columns string) {
	q.selects = &columns
}

func (q *builder) ApplyWith(relations []string) {
	q.includes = append(q.includes, relations...)
}

var _ scope.Applier = (*builder)(nil)

func (q *builder) apply(scopes []scope.Scope) {
	for _, s := range scopes {
		s.Apply(q)
	}
}

// --- SQL building ---

func (q *builder) qi(name string) string {
	return q.d.QuoteIdent(name)
}

func (q *builder) quoteColumns(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = q.qi(c)
	}
	return strings.Join(quoted, ", ")
}

func (q *builder) buildSelect(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.selects != nil {
		b.WriteString(*q.selects)
	} else {
		b.WriteString("*")
	}
	b.WriteString(" FROM ")
	b.WriteString(q.qi(table))

	args := q.appendWhere(&b)

	if len(q.orderBys) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(q.orderBys, ", "))
	}
	if q.limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", *q.limit)
	}
	if q.offset != nil {
		fmt.Fprintf(&b, " OFFSET %d", *q.offset)
	}
	return b.String(), args
}

func (q *builder) buildCount(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(q.qi(table))
	args := q.appendWhere(&b)
	return b.String(), args
}

func (q *builder) buildAggregate(table, fn, field, alias string) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s(%s) AS %s FROM %s", fn, q.qi(field), q.qi(alias), q.qi(table))
	args := q.appendWhere(&b)
	return b.String(), args
}

func (q *builder) buildInsert(table string, columns []string) string {
	if len(columns) == 0 {
		return fmt.Sprintf("INSERT INTO %s %s", q.qi(table), q.d.DefaultValues())
	}
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		q.qi(table),
		q.quoteColumns(columns),
		strings.Join(placeholders, ", "),
	)
}

func (q *builder) buildUpdate(table string, setCols []string, setVals []any) orm.Statement {
	sets := make([]string, len(setCols))
	for i, col := range setCols {
		sets[i] = q.qi(col) + " = ?"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", q.qi(table), strings.Join(sets, ", "))
	args := append(append([]any(nil), setVals...), q.appendWhere(&b)...)
	return orm.Statement{SQL: b.String(), Args: args}
}

func (q *builder) buildDelete(table string) orm.Statement {
	var b strings.Builder
	b.WriteString("DELETE FROM ")
	b.WriteString(q.qi(table))
	args := q.appendWhere(&b)
	return orm.Statement{SQL: b.String(), Args: args}
}

func (q *builder) appendWhere(b *strings.Builder) []any {
	if len(q.wheres) == 0 {
		return nil
	}

	var args []any
	b.WriteString(" WHERE ")
	for i, w := range q.wheres {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString(w.clause)
		args = append(args, w.args...)
	}
	return args
}
