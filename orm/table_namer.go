package orm

// TableNamer can be implemented by model structs to override the
// table name inferred from the type name.
type TableNamer interface {
	TableName() string
}

// TableNameOf returns the table name declared by T through TableNamer
// (value or pointer receiver). ok is false when T declares none.
func TableNameOf[T any]() (name string, ok bool) {
	var zero T
	if tn, ok := any(&zero).(TableNamer); ok {
		return tn.TableName(), true
	}
	return "", false
}
