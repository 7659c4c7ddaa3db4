// Package naming derives table names, model names and foreign keys from
// Go identifiers.
package naming

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

const modelSuffix = "_model"

// ModelName converts a type or model name to its singular snake_case form
// with any trailing "Model" / "_model" removed:
// "BookModel" → "book", "post_model" → "post", "UserProfile" → "user_profile".
func ModelName(name string) string {
	snake := strcase.ToSnake(name)
	if trimmed := strings.TrimSuffix(snake, modelSuffix); trimmed != "" {
		snake = trimmed
	}
	return snake
}

// TableName guesses the table of a model by pluralizing its model name:
// "BookModel" → "books", "Category" → "categories".
func TableName(name string) string {
	return inflection.Plural(ModelName(name))
}

// Singular returns the singular form of a plural table or relation name.
func Singular(name string) string {
	return inflection.Singular(name)
}

// ForeignKey returns the conventional column referencing rows of table:
// "posts" → "post_id".
func ForeignKey(table string) string {
	return Singular(table) + "_id"
}

// ColumnName returns the column a struct field maps to when it carries no
// db tag: "ID" → "id", "CreatedAt" → "created_at", "AuthorID" → "author_id".
func ColumnName(field string) string {
	return strcase.ToSnake(field)
}
