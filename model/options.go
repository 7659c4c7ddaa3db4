package model

// Option configures a Mapper at construction.
type Option func(*Mapper)

// WithTable overrides the guessed table name.
func WithTable(table string) Option {
	return func(m *Mapper) { m.cfg.Table = table }
}

// WithPrimaryKey overrides the primary key column (default "id").
func WithPrimaryKey(column string) Option {
	return func(m *Mapper) { m.cfg.PrimaryKey = column }
}

// WithSoftDelete enables soft delete: deletes set the soft-delete column to
// true and reads skip flagged rows.
func WithSoftDelete() Option {
	return func(m *Mapper) { m.cfg.SoftDelete = true }
}

// WithSoftDeleteColumn sets the flag column used by soft delete
// (default "deleted").
func WithSoftDeleteColumn(column string) Option {
	return func(m *Mapper) { m.cfg.SoftDeleteColumn = column }
}

// WithGroup records the database group the mapper's querier belongs to.
func WithGroup(group string) Option {
	return func(m *Mapper) { m.cfg.Group = group }
}

// WithUUIDKeys makes Create fill a missing primary key with a random UUID.
func WithUUIDKeys() Option {
	return func(m *Mapper) { m.cfg.Keys = KeyUUID }
}

// WithRules sets validator tags per column, checked by Validate:
//
//	model.WithRules(map[string]any{"title": "required,max=255"})
func WithRules(rules map[string]any) Option {
	return func(m *Mapper) { m.cfg.Rules = rules }
}

// WithRegistry sets the registry relationship targets are looked up in.
func WithRegistry(r *Registry) Option {
	return func(m *Mapper) { m.registry = r }
}
