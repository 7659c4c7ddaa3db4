package main

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupWorkspace(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "app.db")

	sqlDB, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()
	for _, stmt := range []string{
		`CREATE TABLE books (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT, deleted INTEGER NOT NULL DEFAULT 0)`,
		`INSERT INTO books (title) VALUES ('A'), ('B')`,
	} {
		_, err := sqlDB.Exec(stmt)
		require.NoError(t, err)
	}

	config := "[groups.main]\ndriver = \"sqlite3\"\ndsn = \"file:" + dbPath + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "basemodel.toml"), []byte(config), 0o600))
	return dir
}

func TestRunReport(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)
	var out bytes.Buffer
	err := run(t.Context(), &out, zerolog.Nop(), options{
		config: filepath.Join(dir, "basemodel.toml"),
		typ:    "BookModel",
	})
	require.NoError(t, err)

	assert.Equal(t, ""+
		"model:       book\n"+
		"group:       main\n"+
		"table:       books\n"+
		"primary key: id\n"+
		"columns:     id, title, deleted\n"+
		"rows:        2\n"+
		"next id:     3\n", out.String())
}

func TestRunDrift(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)
	src := filepath.Join(dir, "book.go")
	require.NoError(t, os.WriteFile(src, []byte(`package model

type Book struct {
	ID       int64   `+"`db:\"id,primaryKey\"`"+`
	Title    string  `+"`db:\"title\"`"+`
	Subtitle string  `+"`db:\"subtitle\"`"+`
	Author   *Author `+"`db:\"author,relation\"`"+`
}
`), 0o600))

	var out bytes.Buffer
	err := run(t.Context(), &out, zerolog.Nop(), options{
		config: filepath.Join(dir, "basemodel.toml"),
		typ:    "Book",
		file:   src,
	})
	require.ErrorIs(t, err, errDrift)
	assert.Contains(t, out.String(), "relations:   author\n")
	assert.Contains(t, out.String(), "missing:     subtitle\n")
	assert.Contains(t, out.String(), "unmapped:    deleted\n")
}

func TestRunUnknownTable(t *testing.T) {
	t.Parallel()

	dir := setupWorkspace(t)
	err := run(t.Context(), &bytes.Buffer{}, zerolog.Nop(), options{
		config: filepath.Join(dir, "basemodel.toml"),
		typ:    "Publisher",
	})
	require.Error(t, err)
}
