package orm_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/basemodel/orm"
)

func TestQueryMaps(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t, orm.PostgreSQL)
	mock.ExpectQuery(`SELECT "id", "title" FROM "books" WHERE "user_id" = $1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).
			AddRow(int64(1), []byte("A")).
			AddRow(int64(2), "B"))

	got, err := orm.QueryMaps(t.Context(), db, `SELECT "id", "title" FROM "books" WHERE "user_id" = ?`, 1)
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"id": int64(1), "title": "A"},
		{"id": int64(2), "title": "B"},
	}, got)
}

func TestQueryMapsEmpty(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t, orm.MySQL)
	mock.ExpectQuery("SELECT * FROM `books`").WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := orm.QueryMaps(t.Context(), db, "SELECT * FROM `books`")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestQueryScalarNotFound(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t, orm.MySQL)
	mock.ExpectQuery("SELECT 1 FROM `books` WHERE 1 = 0").WillReturnRows(sqlmock.NewRows([]string{"1"}))

	var v int64
	err := orm.QueryScalar(t.Context(), db, &v, "SELECT 1 FROM `books` WHERE 1 = 0")
	assert.ErrorIs(t, err, orm.ErrNotFound)
}
