// Package inspect reads record structs from Go source and compares their
// db-tagged fields with the live columns of a table.
package inspect

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"github.com/mickamy/basemodel/internal/naming"
)

// FieldInfo holds parsed metadata for one struct field.
type FieldInfo struct {
	Name       string // Go field name, e.g. "ID"
	Column     string // column or relationship name from the db tag
	GoType     string // e.g. "int64", "*Author", "[]Comment"
	PrimaryKey bool   // tag option "primaryKey", or a field named ID
	Relation   bool   // tag option "relation": filled by hydration, not a column
}

// StructInfo holds parsed metadata for one record struct.
type StructInfo struct {
	Name    string
	Package string
	Fields  []FieldInfo
}

// PrimaryKeyField returns the primary key field, or an error if none or
// multiple are defined.
func (s *StructInfo) PrimaryKeyField() (*FieldInfo, error) {
	var pk *FieldInfo
	for i := range s.Fields {
		if s.Fields[i].PrimaryKey {
			if pk != nil {
				return nil, fmt.Errorf("multiple primary keys: %s and %s", pk.Name, s.Fields[i].Name)
			}
			pk = &s.Fields[i]
		}
	}
	if pk == nil {
		return nil, fmt.Errorf("no primary key defined for %s", s.Name)
	}
	return pk, nil
}

// Columns returns the column names of the non-relation fields.
func (s *StructInfo) Columns() []string {
	cols := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		if !f.Relation {
			cols = append(cols, f.Column)
		}
	}
	return cols
}

// Relations returns the relationship names declared with the relation tag
// option.
func (s *StructInfo) Relations() []string {
	var rels []string
	for _, f := range s.Fields {
		if f.Relation {
			rels = append(rels, f.Column)
		}
	}
	return rels
}

// Parse reads the Go file at path and returns StructInfo for every struct
// declared in it that has at least one exported field.
func Parse(filePath string) ([]*StructInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	pkg := file.Name.Name
	var infos []*StructInfo

	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return true
		}
		fields := parseStructFields(st)
		if len(fields) == 0 {
			return true
		}
		infos = append(infos, &StructInfo{
			Name:    ts.Name.Name,
			Package: pkg,
			Fields:  fields,
		})
		return true
	})

	return infos, nil
}

// Find parses filePath and returns the struct called name.
func Find(filePath, name string) (*StructInfo, error) {
	infos, err := Parse(filePath)
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return nil, fmt.Errorf("struct %s not found in %s", name, filePath)
}

func parseStructFields(st *ast.StructType) []FieldInfo {
	fields := make([]FieldInfo, 0, len(st.Fields.List))
	for _, field := range st.Fields.List {
		fi, skip := parseField(field)
		if skip {
			continue
		}
		fields = append(fields, fi)
	}
	return fields
}

func parseField(field *ast.Field) (FieldInfo, bool) {
	if len(field.Names) == 0 {
		return FieldInfo{}, true // embedded
	}
	name := field.Names[0].Name
	if !field.Names[0].IsExported() {
		return FieldInfo{}, true
	}

	fi := FieldInfo{
		Name:       name,
		Column:     naming.ColumnName(name),
		GoType:     typeToString(field.Type),
		PrimaryKey: name == "ID",
	}

	if field.Tag != nil {
		tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
		if dbTag, ok := tag.Lookup("db"); ok {
			if dbTag == "-" {
				return FieldInfo{}, true
			}
			parts := strings.Split(dbTag, ",")
			if parts[0] != "" {
				fi.Column = parts[0]
			}
			for _, opt := range parts[1:] {
				switch opt {
				case "primaryKey":
					fi.PrimaryKey = true
				case "relation":
					fi.Relation = true
				}
			}
		}
	}
	return fi, false
}

func typeToString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return typeToString(t.X) + "." + t.Sel.Name
	case *ast.StarExpr:
		return "*" + typeToString(t.X)
	case *ast.ArrayType:
		if t.Len == nil {
			return "[]" + typeToString(t.Elt)
		}
		return fmt.Sprintf("[%s]%s", typeToString(t.Len), typeToString(t.Elt))
	case *ast.MapType:
		return "map[" + typeToString(t.Key) + "]" + typeToString(t.Value)
	case *ast.BasicLit:
		return t.Value
	default:
		return fmt.Sprintf("%T", expr)
	}
}
