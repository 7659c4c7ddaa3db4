package model

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/mickamy/basemodel/scope"
)

// Records is a typed view over a Mapper: rows are decoded into T using the
// `db` struct tags of T's fields.
//
//	type Book struct {
//		ID     int64  `db:"id"`
//		Title  string `db:"title"`
//		Author *User  `db:"author"`
//	}
//	books := model.Bind[Book](mapper)
//	book, err := books.Find(ctx, 1)
type Records[T any] struct {
	m *Mapper
}

// Bind returns a typed view over m.
func Bind[T any](m *Mapper) Records[T] {
	return Records[T]{m: m}
}

// Mapper returns the underlying mapper.
func (r Records[T]) Mapper() *Mapper { return r.m }

// With returns a copy that eagerly loads relation.
func (r Records[T]) With(relation string) Records[T] {
	return Records[T]{m: r.m.With(relation)}
}

// Get returns the rows matching conds decoded into T.
func (r Records[T]) Get(ctx context.Context, conds ...scope.Scope) ([]T, error) {
	rows, err := r.m.Get(ctx, conds...)
	if err != nil {
		return nil, err
	}
	return decodeAll[T](rows)
}

// All returns every live row decoded into T.
func (r Records[T]) All(ctx context.Context) ([]T, error) {
	return r.Get(ctx)
}

// Find returns the row with the given primary key, or nil if there is none.
func (r Records[T]) Find(ctx context.Context, id any, conds ...scope.Scope) (*T, error) {
	row, err := r.m.Find(ctx, id, conds...)
	if err != nil || row == nil {
		return nil, err
	}
	var v T
	if err := decode(row, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func decodeAll[T any](rows []Row) ([]T, error) {
	out := make([]T, len(rows))
	for i, row := range rows {
		if err := decode(row, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func decode(row Row, dest any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "db",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc("2006-01-02 15:04:05"),
		Result:           dest,
	})
	if err != nil {
		return err //nolint:wrapcheck // configuration error
	}
	if err := dec.Decode(map[string]any(row)); err != nil {
		return fmt.Errorf("model: decode row: %w", err)
	}
	return nil
}
