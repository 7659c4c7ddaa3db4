// Package model provides Mapper, a record mapper that adds CRUD, aggregate
// queries, soft delete and eager relationship loading on top of an
// orm.Querier.
//
// Table names are guessed from the model name ("BookModel" → "books"), the
// primary key defaults to "id" and relationships are declared at
// construction:
//
//	posts := registry.New(db, "post",
//		model.BelongsTo("author"),
//		model.HasMany("comments"),
//	)
//	post, err := posts.With("author").Find(ctx, 1)
package model

import (
	"reflect"

	"github.com/mickamy/basemodel/internal/naming"
	"github.com/mickamy/basemodel/orm"
)

const (
	defaultPrimaryKey       = "id"
	defaultSoftDeleteColumn = "deleted"
)

// KeyStrategy selects how Create obtains the identifier of a new row.
type KeyStrategy int

const (
	// KeyAutoIncrement lets the database generate the key and reads it back
	// via LastInsertId or RETURNING.
	KeyAutoIncrement KeyStrategy = iota
	// KeyUUID fills a missing primary key with a random UUID before the insert.
	KeyUUID
)

// Direction is a sort direction for OrderBy.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Order is one column of a SortBy list.
type Order struct {
	Column string
	Dir    Direction
}

// Config is the mutable configuration of a Mapper.
type Config struct {
	Table            string
	PrimaryKey       string
	SoftDelete       bool
	SoftDeleteColumn string
	Group            string
	Keys             KeyStrategy
	Rules            map[string]any
}

// Mapper maps one table. Fetch modifiers (With, OrderBy, Limit) return a
// copy carrying the modifier; the receiver is never changed by them, so a
// modifier applies only to queries issued through the returned copy.
type Mapper struct {
	db        orm.Querier
	name      string
	cfg       Config
	decls     []Relationship
	relations []Relationship
	registry  *Registry
	schema    *schemaCache
	pending   builder
}

// New returns a Mapper for the model called name, using db for every query.
// The table defaults to the plural snake_case of name without a trailing
// "Model": "BookModel" and "book_model" both map to "books".
func New(db orm.Querier, name string, opts ...Option) *Mapper {
	m := &Mapper{
		db:   db,
		name: naming.ModelName(name),
		cfg: Config{
			Table:            naming.TableName(name),
			PrimaryKey:       defaultPrimaryKey,
			SoftDeleteColumn: defaultSoftDeleteColumn,
		},
		schema: newSchemaCache(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.relations = resolveRelationships(m.cfg.Table, m.decls)
	return m
}

// NewFor returns a Mapper named after the type T. If T implements
// orm.TableNamer its table name is used.
func NewFor[T any](db orm.Querier, opts ...Option) *Mapper {
	name := reflect.TypeFor[T]().Name()
	if table, ok := orm.TableNameOf[T](); ok {
		opts = append([]Option{WithTable(table)}, opts...)
	}
	return New(db, name, opts...)
}

// clone returns a copy sharing the column cache, registry and relationships.
func (m *Mapper) clone() *Mapper {
	m2 := *m
	m2.pending = m.pending.clone()
	return &m2
}

// newQuery starts a statement from the pending modifiers.
func (m *Mapper) newQuery() *builder {
	q := m.pending.clone()
	q.d = m.db.Dialect()
	return &q
}

// excludeDeleted adds the soft-delete filter when soft delete is enabled.
func (m *Mapper) excludeDeleted(q *builder) {
	if m.cfg.SoftDelete {
		q.ApplyEq(m.cfg.SoftDeleteColumn, false)
	}
}

// --- fetch modifiers ---

// With returns a copy of m that eagerly loads the named relationship on its
// fetches. Names that are not declared are ignored.
func (m *Mapper) With(relation string) *Mapper {
	m2 := m.clone()
	m2.pending.includes = append(m2.pending.includes, relation)
	return m2
}

// OrderBy returns a copy of m whose queries are ordered by column.
func (m *Mapper) OrderBy(column string, dir Direction) *Mapper {
	return m.SortBy(Order{Column: column, Dir: dir})
}

// SortBy returns a copy of m ordered by every entry of orders, in turn.
func (m *Mapper) SortBy(orders ...Order) *Mapper {
	m2 := m.clone()
	for _, o := range orders {
		clause := m.db.Dialect().QuoteIdent(o.Column)
		if o.Dir != "" {
			clause += " " + string(o.Dir)
		}
		m2.pending.orderBys = append(m2.pending.orderBys, clause)
	}
	return m2
}

// Limit returns a copy of m whose queries return at most n rows, skipping
// the first offset rows.
func (m *Mapper) Limit(n, offset int) *Mapper {
	m2 := m.clone()
	m2.pending.limit = &n
	if offset > 0 {
		m2.pending.offset = &offset
	} else {
		m2.pending.offset = nil
	}
	return m2
}

// Using returns a copy of m that runs its queries on db, typically an
// *orm.Tx.
func (m *Mapper) Using(db orm.Querier) *Mapper {
	m2 := m.clone()
	m2.db = db
	return m2
}

// --- getters / setters ---

// Name returns the singular model name, e.g. "book".
func (m *Mapper) Name() string { return m.name }

// Querier returns the backend the mapper runs its queries on.
func (m *Mapper) Querier() orm.Querier { return m.db }

// Config returns a copy of the current configuration.
func (m *Mapper) Config() Config { return m.cfg }

func (m *Mapper) Table() string { return m.cfg.Table }

// SetTable renames the table. has_many keys that were left to default are
// derived again from the new name; explicit keys are kept.
func (m *Mapper) SetTable(table string) {
	m.cfg.Table = table
	m.relations = resolveRelationships(table, m.decls)
}

func (m *Mapper) PrimaryKey() string { return m.cfg.PrimaryKey }

func (m *Mapper) SetPrimaryKey(column string) { m.cfg.PrimaryKey = column }

func (m *Mapper) SoftDelete() bool { return m.cfg.SoftDelete }

func (m *Mapper) SetSoftDelete(enabled bool) { m.cfg.SoftDelete = enabled }

func (m *Mapper) SoftDeleteColumn() string { return m.cfg.SoftDeleteColumn }

func (m *Mapper) SetSoftDeleteColumn(column string) { m.cfg.SoftDeleteColumn = column }

// Group returns the database group the mapper was built for; empty means
// the default group.
func (m *Mapper) Group() string { return m.cfg.Group }

// Relationships returns the resolved relationship declarations.
func (m *Mapper) Relationships() []Relationship {
	return append([]Relationship(nil), m.relations...)
}
