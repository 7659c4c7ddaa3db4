package inspect_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/mickamy/basemodel/internal/inspect"
)

func testdataPath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func TestParse(t *testing.T) {
	t.Parallel()

	infos, err := inspect.Parse(testdataPath("book.go"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("len(infos) = %d, want 3", len(infos))
	}
	for _, info := range infos {
		if info.Package != "testdata" {
			t.Errorf("%s: Package = %q, want %q", info.Name, info.Package, "testdata")
		}
	}

	book := infos[0]
	if book.Name != "Book" {
		t.Fatalf("Name = %q, want %q", book.Name, "Book")
	}
	if len(book.Fields) != 8 {
		t.Fatalf("len(Fields) = %d, want 8", len(book.Fields))
	}

	tests := []struct {
		index int
		want  inspect.FieldInfo
	}{
		{0, inspect.FieldInfo{Name: "ID", Column: "id", GoType: "int64", PrimaryKey: true}},
		{1, inspect.FieldInfo{Name: "AuthorID", Column: "author_id", GoType: "*int64"}},
		{4, inspect.FieldInfo{Name: "CreatedAt", Column: "created_at", GoType: "time.Time"}},
		{5, inspect.FieldInfo{Name: "Author", Column: "author", GoType: "*Author", Relation: true}},
		{6, inspect.FieldInfo{Name: "Comments", Column: "comments", GoType: "[]Comment", Relation: true}},
		{7, inspect.FieldInfo{Name: "Tags", Column: "tags", GoType: "[2]string"}},
	}
	for _, tt := range tests {
		if got := book.Fields[tt.index]; got != tt.want {
			t.Errorf("Fields[%d] = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestColumnsAndRelations(t *testing.T) {
	t.Parallel()

	book, err := inspect.Find(testdataPath("book.go"), "Book")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	cols := book.Columns()
	want := []string{"id", "author_id", "title", "deleted", "created_at", "tags"}
	if len(cols) != len(want) {
		t.Fatalf("Columns() = %v, want %v", cols, want)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Errorf("Columns()[%d] = %q, want %q", i, cols[i], want[i])
		}
	}

	rels := book.Relations()
	if len(rels) != 2 || rels[0] != "author" || rels[1] != "comments" {
		t.Errorf("Relations() = %v", rels)
	}
}

func TestPrimaryKeyField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantCol string
		wantErr bool
	}{
		{"Book", "id", false},
		{"Author", "isbn", false},
		{"Comment", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := inspect.Find(testdataPath("book.go"), tt.name)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			pk, err := info.PrimaryKeyField()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for no primary key, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("PrimaryKeyField: %v", err)
			}
			if pk.Column != tt.wantCol {
				t.Errorf("PK column = %q, want %q", pk.Column, tt.wantCol)
			}
		})
	}
}

func TestMultiplePrimaryKeys(t *testing.T) {
	t.Parallel()

	info := &inspect.StructInfo{Name: "X", Fields: []inspect.FieldInfo{
		{Name: "ID", Column: "id", PrimaryKey: true},
		{Name: "Code", Column: "code", PrimaryKey: true},
	}}
	if _, err := info.PrimaryKeyField(); err == nil {
		t.Fatal("expected error for multiple primary keys, got nil")
	}
}

func TestFindErrors(t *testing.T) {
	t.Parallel()

	if _, err := inspect.Find("nonexistent.go", "Book"); err == nil {
		t.Error("expected error for invalid file, got nil")
	}
	if _, err := inspect.Find(testdataPath("book.go"), "Publisher"); err == nil {
		t.Error("expected error for unknown struct, got nil")
	}
}

func TestCompare(t *testing.T) {
	t.Parallel()

	info := &inspect.StructInfo{Name: "Book", Fields: []inspect.FieldInfo{
		{Name: "ID", Column: "id"},
		{Name: "Title", Column: "title"},
		{Name: "Subtitle", Column: "subtitle"},
		{Name: "Author", Column: "author", Relation: true},
	}}

	d := inspect.Compare(info, []string{"id", "title", "deleted"})
	if d.Clean() {
		t.Fatal("Clean() = true, want false")
	}
	if len(d.Missing) != 1 || d.Missing[0] != "subtitle" {
		t.Errorf("Missing = %v, want [subtitle]", d.Missing)
	}
	if len(d.Unmapped) != 1 || d.Unmapped[0] != "deleted" {
		t.Errorf("Unmapped = %v, want [deleted]", d.Unmapped)
	}

	if d := inspect.Compare(info, []string{"id", "title", "subtitle"}); !d.Clean() {
		t.Errorf("Compare = %+v, want clean", d)
	}
}
