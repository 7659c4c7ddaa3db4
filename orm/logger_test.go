package orm_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/mickamy/basemodel/orm"
)

func TestZerologLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := orm.NewZerologLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	l.Log(t.Context(), "SELECT * FROM `books` WHERE `id` = ?", 5)

	out := buf.String()
	assert.Contains(t, out, `"query":"SELECT * FROM `+"`books`"+` WHERE `+"`id`"+` = ?"`)
	assert.Contains(t, out, `"args":[5]`)
	assert.Contains(t, out, `"level":"debug"`)
}

func TestZerologLoggerPrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	l := orm.NewZerologLogger(zerolog.New(&base))
	ctx := zerolog.New(&scoped).With().Str("request_id", "r-1").Logger().WithContext(t.Context())

	l.Log(ctx, "SELECT 1")

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), `"request_id":"r-1"`)
}
