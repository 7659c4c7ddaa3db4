package model_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/basemodel/model"
	"github.com/mickamy/basemodel/orm"
)

// go-sqlite3 decodes BOOLEAN columns into bool, so flags are declared
// INTEGER to keep the raw 0/1 the other drivers hand back.
var sqliteSchema = []string{
	`CREATE TABLE authors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		author_id INTEGER,
		title TEXT NOT NULL,
		deleted INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE comments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		book_id INTEGER NOT NULL,
		body TEXT NOT NULL
	)`,
	`CREATE TABLE tags (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL
	)`,
}

func openSQLite(t *testing.T) *orm.DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range sqliteSchema {
		_, err := sqlDB.Exec(stmt)
		require.NoError(t, err)
	}
	return orm.New(sqlDB, orm.SQLite)
}

type fixture struct {
	db       *orm.DB
	registry *model.Registry
	authors  *model.Mapper
	books    *model.Mapper
	comments *model.Mapper
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	db := openSQLite(t)
	reg := model.NewRegistry()
	return fixture{
		db:       db,
		registry: reg,
		authors:  reg.New(db, "AuthorModel"),
		books: reg.New(db, "BookModel",
			model.WithSoftDelete(),
			model.BelongsTo("author"),
			model.HasMany("comments"),
		),
		comments: reg.New(db, "CommentModel"),
	}
}

func mustCreate(t *testing.T, m *model.Mapper, data model.Row) int64 {
	t.Helper()

	id, err := m.Create(t.Context(), data)
	require.NoError(t, err)
	n, ok := id.(int64)
	require.True(t, ok, "id %T is not int64", id)
	return n
}

func countRows(t *testing.T, db *orm.DB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.SQL().QueryRowContext(t.Context(), `SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}
