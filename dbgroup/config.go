// Package dbgroup manages named database groups: a configuration file lists
// one DSN per group and a Manager opens each group on first use.
//
//	[groups.default]
//	driver = "mysql"
//	dsn    = "app:${DB_PASSWORD}@tcp(127.0.0.1:3306)/app"
//
//	[groups.reporting]
//	driver = "pgx"
//	dsn    = "postgres://report@127.0.0.1:5432/report"
package dbgroup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/mickamy/basemodel/orm"
)

// DefaultGroup is the group used when a configuration names none.
const DefaultGroup = "default"

// EnvPrefix prefixes the variables read by FromEnv, e.g. BASEMODEL_DB_DSN.
const EnvPrefix = "BASEMODEL_DB"

var (
	// ErrUnknownGroup is returned when a group is not configured.
	ErrUnknownGroup = errors.New("dbgroup: unknown group")

	// ErrUnsupportedDriver is returned for a driver without a dialect.
	ErrUnsupportedDriver = errors.New("dbgroup: unsupported driver")
)

// Config lists the database groups of an application.
type Config struct {
	// Default names the group used for an empty group name.
	Default string           `toml:"default"`
	Groups  map[string]Group `toml:"groups"`
}

// Group is the connection settings of one database group.
type Group struct {
	Driver          string        `toml:"driver" envconfig:"DRIVER" default:"mysql"`
	DSN             string        `toml:"dsn" envconfig:"DSN" required:"true"`
	MaxOpenConns    int           `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int           `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"`
	// Debug logs every query of the group at debug level.
	Debug bool `toml:"debug" envconfig:"DEBUG"`
}

// Load reads a TOML configuration from path. A .env file next to path is
// loaded first, without overriding variables already set, so DSNs can
// reference ${VAR}.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("dbgroup: parse %s: %w", path, err)
	}
	for name, g := range cfg.Groups {
		g.DSN = os.ExpandEnv(g.DSN)
		cfg.Groups[name] = g
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a single-group configuration from BASEMODEL_DB_DRIVER,
// BASEMODEL_DB_DSN, BASEMODEL_DB_MAX_OPEN_CONNS, BASEMODEL_DB_MAX_IDLE_CONNS,
// BASEMODEL_DB_CONN_MAX_LIFETIME and BASEMODEL_DB_DEBUG.
func FromEnv() (*Config, error) {
	var g Group
	if err := envconfig.Process(EnvPrefix, &g); err != nil {
		return nil, fmt.Errorf("dbgroup: parsing env: %w", err)
	}
	cfg := &Config{
		Default: DefaultGroup,
		Groups:  map[string]Group{DefaultGroup: g},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err //nolint:wrapcheck // pass through
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("dbgroup: load %s: %w", path, err)
	}
	return nil
}

// Validate fills the default group name and checks every group's driver
// and DSN.
func (c *Config) Validate() error {
	if len(c.Groups) == 0 {
		return errors.New("dbgroup: no groups configured")
	}
	if c.Default == "" {
		c.Default = DefaultGroup
		if len(c.Groups) == 1 {
			for name := range c.Groups {
				c.Default = name
			}
		}
	}
	if _, ok := c.Groups[c.Default]; !ok {
		return fmt.Errorf("%w: default %q", ErrUnknownGroup, c.Default)
	}
	for _, name := range c.Names() {
		if err := c.Groups[name].validate(); err != nil {
			return fmt.Errorf("dbgroup: group %q: %w", name, err)
		}
	}
	return nil
}

// Names returns the configured group names in lexical order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Groups))
	for name := range c.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (g Group) validate() error {
	if g.DSN == "" {
		return errors.New("dsn is required")
	}
	if _, err := DialectFor(g.Driver); err != nil {
		return err
	}
	switch driverName(g.Driver) {
	case "mysql":
		if _, err := mysql.ParseDSN(g.DSN); err != nil {
			return fmt.Errorf("invalid mysql dsn: %w", err)
		}
	case "pgx":
		if _, err := pgx.ParseConfig(g.DSN); err != nil {
			return fmt.Errorf("invalid postgres dsn: %w", err)
		}
	}
	return nil
}

// DialectFor returns the dialect spoken by driver. "postgres" is accepted
// as an alias of "pgx", "sqlite" of "sqlite3".
func DialectFor(driver string) (orm.Dialect, error) {
	switch driverName(driver) {
	case "mysql":
		return orm.MySQL, nil
	case "pgx":
		return orm.PostgreSQL, nil
	case "sqlite3":
		return orm.SQLite, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// driverName maps aliases to the name the driver registers with database/sql.
func driverName(driver string) string {
	switch driver {
	case "postgres", "postgresql":
		return "pgx"
	case "sqlite":
		return "sqlite3"
	default:
		return driver
	}
}
