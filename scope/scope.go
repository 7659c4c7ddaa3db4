package scope

import "strings"

// Applier is implemented by query builders to receive scope fragments.
// This interface lives in the scope package so that orm can import scope
// without creating circular dependencies.
type Applier interface {
	ApplyWhere(clause string, args []any)
	ApplyOrderBy(clause string)
	ApplyLimit(n int)
	ApplyOffset(n int)
	ApplySelect(columns string)
	ApplyEq(column string, value any)
	ApplyIn(column string, values []any)
	ApplyWith(relations []string)
}

type scopeKind int

const (
	kindWhere scopeKind = iota
	kindOrderBy
	kindLimit
	kindOffset
	kindSelect
	kindEq
	kindIn
	kindWith
)

// Scope represents a single query condition fragment.
// Scopes are immutable and safe to reuse across queries.
type Scope struct {
	kind   scopeKind
	clause string
	args   []any
	n      int
	names  []string
}

// Apply dispatches this Scope to the given Applier.
func (s Scope) Apply(a Applier) {
	switch s.kind {
	case kindWhere:
		a.ApplyWhere(s.clause, s.args)
	case kindOrderBy:
		a.ApplyOrderBy(s.clause)
	case kindLimit:
		a.ApplyLimit(s.n)
	case kindOffset:
		a.ApplyOffset(s.n)
	case kindSelect:
		a.ApplySelect(s.clause)
	case kindEq:
		a.ApplyEq(s.clause, s.args[0])
	case kindIn:
		a.ApplyIn(s.clause, s.args)
	case kindWith:
		a.ApplyWith(s.names)
	}
}

// Where returns a Scope that adds a WHERE clause fragment. Every ? outside
// a quoted literal is a placeholder, rebound to $n on PostgreSQL; use
// jsonb_exists(col, ?) rather than the jsonb ? operator.
//
//	scope.Where("age > ?", 18)
//	scope.Where("name = ? AND role = ?", "alice", "admin")
func Where(clause string, args ...any) Scope {
	return Scope{kind: kindWhere, clause: clause, args: args}
}

// Eq returns a Scope that matches rows whose column equals value. The
// column is quoted by the query builder; a nil value matches NULL.
//
//	scope.Eq("user_id", 1)  // → WHERE `user_id` = ?
func Eq(column string, value any) Scope {
	return Scope{kind: kindEq, clause: column, args: []any{value}}
}

// With returns a Scope that requests eager loading of the named
// relationships for the rows the query returns. Names that are not
// declared on the model are ignored.
//
//	scope.With("author", "comments")
func With(relations ...string) Scope {
	return Scope{kind: kindWith, names: append([]string(nil), relations...)}
}

// OrderBy returns a Scope that sets the ORDER BY clause.
//
//	scope.OrderBy("created_at DESC")
func OrderBy(clause string) Scope {
	return Scope{kind: kindOrderBy, clause: clause}
}

// Limit returns a Scope that sets the LIMIT.
func Limit(n int) Scope {
	return Scope{kind: kindLimit, n: n}
}

// Offset returns a Scope that sets the OFFSET.
func Offset(n int) Scope {
	return Scope{kind: kindOffset, n: n}
}

// Select returns a Scope that overrides the SELECT column list.
//
//	scope.Select("id", "name")
func Select(columns ...string) Scope {
	return Scope{kind: kindSelect, clause: strings.Join(columns, ", ")}
}

// In returns a Scope matching rows whose column is one of values. The
// column is quoted and the slice expanded into one placeholder per value by
// the query builder; an empty slice matches nothing.
//
//	scope.In("id", []int{1, 2, 3})  // → WHERE `id` IN (?, ?, ?)
func In[T any](column string, values []T) Scope {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return Scope{kind: kindIn, clause: column, args: args}
}

// Scopes is a named slice of Scope, useful for conditionally building
// up a set of scopes.
//
//	var s scope.Scopes
//	if onlyActive {
//	    s = s.Append(Active)
//	}
//	s = s.Append(Paginate(page, perPage))
//	rows, err := books.Get(ctx, s...)
type Scopes []Scope

// Append adds scopes and returns a new Scopes. The receiver is not modified.
func (ss Scopes) Append(scopes ...Scope) Scopes {
	return append(append(Scopes(nil), ss...), scopes...)
}

// Merge concatenates two Scopes and returns a new Scopes.
// Neither receiver nor argument is modified.
func (ss Scopes) Merge(other Scopes) Scopes {
	return append(append(Scopes(nil), ss...), other...)
}

// Combine creates a Scopes from the given scopes.
//
//	scope.Combine(scope.Limit(10), scope.Offset(20))
func Combine(scopes ...Scope) Scopes {
	return Scopes(scopes)
}
