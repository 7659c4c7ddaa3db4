package model

import (
	"context"
	"fmt"
	"slices"

	"github.com/mickamy/basemodel/internal/naming"
	"github.com/mickamy/basemodel/orm"
	"github.com/mickamy/basemodel/scope"
)

// RelationKind distinguishes the two supported relationship kinds.
type RelationKind int

const (
	// BelongsToKind: the row holds ForeignKey, referencing one row of Target.
	BelongsToKind RelationKind = iota
	// HasManyKind: rows of Target hold ForeignKey, referencing this row.
	HasManyKind
)

func (k RelationKind) String() string {
	switch k {
	case BelongsToKind:
		return "belongs_to"
	case HasManyKind:
		return "has_many"
	default:
		return "unknown"
	}
}

// Relationship is a resolved relationship declaration.
type Relationship struct {
	Name       string
	Kind       RelationKind
	ForeignKey string
	// Target is the registry name of the related model.
	Target string
}

// RelationOption customizes a relationship declaration.
type RelationOption func(*Relationship)

// ForeignKey overrides the foreign key column of a relationship.
func ForeignKey(column string) RelationOption {
	return func(r *Relationship) { r.ForeignKey = column }
}

// Target overrides the registry name of the related model.
func Target(model string) RelationOption {
	return func(r *Relationship) { r.Target = model }
}

// BelongsTo declares that rows reference one row of the model name. By
// default the foreign key is name + "_id" and the target model is name:
// BelongsTo("author") reads author_id and loads from model "author".
func BelongsTo(name string, opts ...RelationOption) Option {
	return declare(name, BelongsToKind, opts)
}

// HasMany declares that rows of another model reference this one. By default
// the foreign key is the singular of this table + "_id" and the target is
// the singular of name: HasMany("comments") on table posts loads model
// "comment" where post_id equals the post's primary key.
func HasMany(name string, opts ...RelationOption) Option {
	return declare(name, HasManyKind, opts)
}

func declare(name string, kind RelationKind, opts []RelationOption) Option {
	return func(m *Mapper) {
		r := Relationship{Name: name, Kind: kind}
		for _, opt := range opts {
			opt(&r)
		}
		m.decls = append(m.decls, r)
	}
}

// resolveRelationships fills in defaults once, at construction.
func resolveRelationships(table string, decls []Relationship) []Relationship {
	resolved := make([]Relationship, len(decls))
	for i, r := range decls {
		switch r.Kind {
		case BelongsToKind:
			if r.ForeignKey == "" {
				r.ForeignKey = r.Name + "_id"
			}
			if r.Target == "" {
				r.Target = naming.ModelName(r.Name)
			}
		case HasManyKind:
			if r.ForeignKey == "" {
				r.ForeignKey = naming.ForeignKey(table)
			}
			if r.Target == "" {
				r.Target = naming.ModelName(naming.Singular(r.Name))
			}
		}
		resolved[i] = r
	}
	return resolved
}

// hydrate attaches every requested relationship to rows. It issues one
// query per relationship per row.
func (m *Mapper) hydrate(ctx context.Context, rows []Row, includes []string) error {
	if len(includes) == 0 || len(rows) == 0 {
		return nil
	}
	for _, rel := range m.relations {
		if !slices.Contains(includes, rel.Name) {
			continue
		}
		target, err := m.registry.Lookup(rel.Target)
		if err != nil {
			return fmt.Errorf("model: relationship %q of %s: %w", rel.Name, m.name, err)
		}
		target = m.sameBackend(target)
		for _, row := range rows {
			if err := m.relate(ctx, target, rel, row); err != nil {
				return err
			}
		}
	}
	return nil
}

// sameBackend moves target into m's transaction when both run on the
// database that began it. Targets on another database keep their own.
func (m *Mapper) sameBackend(target *Mapper) *Mapper {
	tx, ok := m.db.(*orm.Tx)
	if !ok || !tx.StartedBy(target.db) {
		return target
	}
	return target.Using(tx)
}

func (m *Mapper) relate(ctx context.Context, target *Mapper, rel Relationship, row Row) error {
	switch rel.Kind {
	case BelongsToKind:
		fk := row[rel.ForeignKey]
		if fk == nil {
			row[rel.Name] = nil
			return nil
		}
		parent, err := target.Find(ctx, fk)
		if err != nil {
			return err
		}
		if parent == nil {
			row[rel.Name] = nil
			return nil
		}
		row[rel.Name] = parent
	case HasManyKind:
		id, ok := row[m.cfg.PrimaryKey]
		if !ok || id == nil {
			return fmt.Errorf("%w: %s.%s", ErrNoPrimaryKey, m.cfg.Table, m.cfg.PrimaryKey)
		}
		children, err := target.Get(ctx, scope.Eq(rel.ForeignKey, id))
		if err != nil {
			return err
		}
		if children == nil {
			children = []Row{}
		}
		row[rel.Name] = children
	}
	return nil
}
