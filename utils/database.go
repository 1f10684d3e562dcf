package utils

import (
	"reflect"
)

// ColumnList returns the "db" tag of every field of the model struct, in
// declaration order. Embedded structs are flattened.
func ColumnList[Model any]() []string {
	var model Model
	return structColumns(reflect.TypeOf(model))
}

func structColumns(t reflect.Type) []string {
	columns := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, structColumns(field.Type)...)
			continue
		}
		if tag, ok := field.Tag.Lookup("db"); ok && tag != "-" {
			columns = append(columns, tag)
		}
	}
	return columns
}
