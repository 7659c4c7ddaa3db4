package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/mickamy/basemodel/dbgroup"
	"github.com/mickamy/basemodel/internal/inspect"
	"github.com/mickamy/basemodel/model"
	"github.com/mickamy/basemodel/orm"
)

var version = "dev"

var errDrift = errors.New("struct and table differ")

type options struct {
	config  string
	group   string
	typ     string
	table   string
	file    string
	verbose bool
}

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "basemodel.toml", "database group config (falls back to BASEMODEL_DB_* when the file is absent)")
	flag.StringVar(&opts.group, "group", "", "database group (default group if omitted)")
	flag.StringVar(&opts.typ, "type", "", "model or struct type name (required)")
	flag.StringVar(&opts.table, "table", "", "table name (optional; inferred from -type if omitted)")
	flag.StringVar(&opts.file, "file", os.Getenv("GOFILE"), "Go file declaring -type; compares its db fields with the table")
	flag.BoolVar(&opts.verbose, "verbose", false, "log every query")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("basemodel", version)
		return
	}

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if opts.typ == "" {
		logger.Fatal().Msg("-type flag is required")
	}

	ctx := logger.WithContext(context.Background())
	if err := run(ctx, os.Stdout, logger, opts); err != nil {
		if errors.Is(err, errDrift) {
			logger.Error().Str("type", opts.typ).Msg(err.Error())
			os.Exit(1)
		}
		logger.Fatal().Err(err).Msg("basemodel")
	}
}

func loadConfig(path string) (*dbgroup.Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return dbgroup.FromEnv()
	}
	return dbgroup.Load(path)
}

func run(ctx context.Context, w io.Writer, logger zerolog.Logger, opts options) error {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return err
	}
	if opts.verbose {
		for name, g := range cfg.Groups {
			g.Debug = true
			cfg.Groups[name] = g
		}
	}

	mgr := dbgroup.NewManager(cfg, dbgroup.WithLogger(logger))
	defer func() { _ = mgr.Close() }()

	var info *inspect.StructInfo
	var mapperOpts []model.Option
	if opts.table != "" {
		mapperOpts = append(mapperOpts, model.WithTable(opts.table))
	}
	if opts.file != "" {
		info, err = inspect.Find(opts.file, opts.typ)
		if err != nil {
			return err
		}
		if pk, err := info.PrimaryKeyField(); err == nil {
			mapperOpts = append(mapperOpts, model.WithPrimaryKey(pk.Column))
		}
	}

	m, err := mgr.Mapper(ctx, opts.group, opts.typ, mapperOpts...)
	if err != nil {
		return err
	}
	return report(ctx, w, m, info)
}

// report prints what the mapper infers for its model and what the table
// holds. With info it also compares the struct fields with the columns.
func report(ctx context.Context, w io.Writer, m *model.Mapper, info *inspect.StructInfo) error {
	columns, err := orm.Columns(ctx, m.Querier(), m.Table())
	if err != nil {
		return err
	}
	count, err := m.Count(ctx)
	if err != nil {
		return err
	}
	next := "n/a"
	if id, err := m.NextID(ctx); err == nil {
		next = fmt.Sprint(id)
	}

	fmt.Fprintf(w, "model:       %s\n", m.Name())
	fmt.Fprintf(w, "group:       %s\n", m.Group())
	fmt.Fprintf(w, "table:       %s\n", m.Table())
	fmt.Fprintf(w, "primary key: %s\n", m.PrimaryKey())
	fmt.Fprintf(w, "columns:     %s\n", strings.Join(columns, ", "))
	fmt.Fprintf(w, "rows:        %d\n", count)
	fmt.Fprintf(w, "next id:     %s\n", next)

	if info == nil {
		return nil
	}
	if rels := info.Relations(); len(rels) > 0 {
		fmt.Fprintf(w, "relations:   %s\n", strings.Join(rels, ", "))
	}
	d := inspect.Compare(info, columns)
	if d.Clean() {
		return nil
	}
	if len(d.Missing) > 0 {
		fmt.Fprintf(w, "missing:     %s\n", strings.Join(d.Missing, ", "))
	}
	if len(d.Unmapped) > 0 {
		fmt.Fprintf(w, "unmapped:    %s\n", strings.Join(d.Unmapped, ", "))
	}
	return errDrift
}
