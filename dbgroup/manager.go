package dbgroup

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/mickamy/basemodel/model"
	"github.com/mickamy/basemodel/orm"
)

// Manager opens database groups on first use and hands out mappers bound
// to them. All mappers built by one Manager share a model.Registry, so
// relationships resolve across groups. A Manager is safe for concurrent
// use.
type Manager struct {
	cfg      *Config
	log      zerolog.Logger
	registry *model.Registry

	mu  sync.Mutex
	dbs map[string]*orm.DB
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for connection events and debug query logs.
func WithLogger(l zerolog.Logger) ManagerOption {
	return func(m *Manager) { m.log = l }
}

// WithRegistry makes the Manager register its mappers in r.
func WithRegistry(r *model.Registry) ManagerOption {
	return func(m *Manager) { m.registry = r }
}

// NewManager returns a Manager for cfg. No connection is opened until a
// group is first requested.
func NewManager(cfg *Config, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:      cfg,
		log:      zerolog.Nop(),
		registry: model.NewRegistry(),
		dbs:      make(map[string]*orm.DB),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Registry returns the registry mappers are registered in.
func (m *Manager) Registry() *model.Registry { return m.registry }

// DB returns the connection of group, opening and pinging it on first use.
// An empty group selects the default group.
func (m *Manager) DB(ctx context.Context, group string) (*orm.DB, error) {
	name := m.resolve(group)

	m.mu.Lock()
	defer m.mu.Unlock()

	if db, ok := m.dbs[name]; ok {
		return db, nil
	}
	g, ok := m.cfg.Groups[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	db, err := m.open(ctx, name, g)
	if err != nil {
		return nil, err
	}
	m.dbs[name] = db
	return db, nil
}

// Mapper builds a mapper for the model name on group and registers it.
func (m *Manager) Mapper(ctx context.Context, group, name string, opts ...model.Option) (*model.Mapper, error) {
	db, err := m.DB(ctx, group)
	if err != nil {
		return nil, err
	}
	opts = append([]model.Option{model.WithGroup(m.resolve(group))}, opts...)
	return m.registry.New(db, name, opts...), nil
}

// Close closes every opened group.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs error
	for name, db := range m.dbs {
		if err := db.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("dbgroup: close %q: %w", name, err))
		}
		delete(m.dbs, name)
	}
	return errs
}

func (m *Manager) resolve(group string) string {
	if group == "" {
		return m.cfg.Default
	}
	return group
}

func (m *Manager) open(ctx context.Context, name string, g Group) (*orm.DB, error) {
	d, err := DialectFor(g.Driver)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(driverName(g.Driver), g.DSN)
	if err != nil {
		return nil, fmt.Errorf("dbgroup: open %q: %w", name, err)
	}
	applyPoolSettings(sqlDB, g)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("dbgroup: ping %q: %w", name, err)
	}

	db := orm.New(sqlDB, d)
	if g.Debug {
		db = db.Debug(orm.NewZerologLogger(m.log.With().Str("group", name).Logger()))
	}

	m.log.Info().
		Str("group", name).
		Str("driver", driverName(g.Driver)).
		Str("dialect", d.Name()).
		Msg("database group opened")
	return db, nil
}

func applyPoolSettings(sqlDB *sql.DB, g Group) {
	if g.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(g.MaxOpenConns)
	}
	if g.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(g.MaxIdleConns)
	}
	if g.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(g.ConnMaxLifetime)
	}
}
