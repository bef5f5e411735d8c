package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// dbFields caches the exported, db-tagged field indexes of a struct type.
var dbFields sync.Map // reflect.Type -> []taggedField

type taggedField struct {
	index  int
	column string
}

func fieldsOf(t reflect.Type) []taggedField {
	if cached, ok := dbFields.Load(t); ok {
		return cached.([]taggedField)
	}
	var out []taggedField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		col, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		col = strings.TrimSpace(col)
		if col == "" || col == "-" {
			continue
		}
		out = append(out, taggedField{index: i, column: col})
	}
	dbFields.Store(t, out)
	return out
}

// InsertRows starts a multi-row insert whose columns come from the db tags of
// T. T must be a struct type.
func InsertRows[T any](table string, models ...T) *InsertBuilder {
	b := InsertInto(table)

	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		b.err = fmt.Errorf("insert: %s is not a struct", t)
		return b
	}
	fields := fieldsOf(t)
	if len(fields) == 0 {
		b.err = fmt.Errorf("insert: %s has no db columns", t)
		return b
	}

	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.column
	}
	b.Columns(cols...)

	for _, m := range models {
		v := reflect.ValueOf(m)
		row := make([]any, len(fields))
		for i, f := range fields {
			row[i] = v.Field(f.index).Interface()
		}
		b.Values(row...)
	}
	return b
}
