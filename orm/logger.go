package orm

import (
	"context"

	"github.com/rs/zerolog"
)

type zerologLogger struct {
	base zerolog.Logger
}

// NewZerologLogger returns a Logger that writes every query at debug level.
// A logger stored in ctx with zerolog's WithContext takes precedence.
func NewZerologLogger(l zerolog.Logger) Logger {
	return zerologLogger{base: l}
}

func (z zerologLogger) Log(ctx context.Context, query string, args ...any) {
	l := &z.base
	if fromCtx := zerolog.Ctx(ctx); fromCtx.GetLevel() != zerolog.Disabled {
		l = fromCtx
	}
	l.Debug().Str("query", query).Interface("args", args).Msg("orm: query")
}
