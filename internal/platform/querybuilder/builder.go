// Package querybuilder renders the few postgres statements the match tree
// store needs, with numbered placeholders.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders one WHERE predicate. Conditions are joined with AND.
type Condition interface {
	render(w *statement)
}

type isNull string

func IsNull(column string) Condition { return isNull(column) }

func (c isNull) render(w *statement) {
	w.sql.WriteString(string(c))
	w.sql.WriteString(" IS NULL")
}

type equals struct {
	column string
	value  any
}

func Eq(column string, value any) Condition { return equals{column: column, value: value} }

func (c equals) render(w *statement) {
	w.sql.WriteString(c.column)
	w.sql.WriteString(" = ")
	w.bind(c.value)
}

// statement accumulates SQL text and its positional arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func (w *statement) bind(v any) {
	w.args = append(w.args, v)
	w.sql.WriteString("$")
	w.sql.WriteString(strconv.Itoa(len(w.args)))
}

func (w *statement) where(conds []Condition) {
	for i, c := range conds {
		if i == 0 {
			w.sql.WriteString(" WHERE ")
		} else {
			w.sql.WriteString(" AND ")
		}
		c.render(w)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: columns}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	b.where = append(b.where, conds...)
	return b
}

func (b *SelectBuilder) OrderBy(columns ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, columns...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	switch {
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("select: no columns")
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("select: no table")
	}

	var w statement
	fmt.Fprintf(&w.sql, "SELECT %s FROM %s", strings.Join(b.columns, ", "), b.table)
	w.where(b.where)
	if len(b.orderBy) > 0 {
		w.sql.WriteString(" ORDER BY ")
		w.sql.WriteString(strings.Join(b.orderBy, ", "))
	}
	return w.sql.String(), w.args, nil
}

type InsertBuilder struct {
	table    string
	columns  []string
	rows     [][]any
	conflict []string
	update   []string
	err      error
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = columns
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// OnConflict turns the insert into an upsert: rows clashing on target
// overwrite the update columns with the incoming values.
func (b *InsertBuilder) OnConflict(target []string, update ...string) *InsertBuilder {
	b.conflict = target
	b.update = update
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case b.err != nil:
		return "", nil, b.err
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert: no table")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert: no columns")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert: no rows")
	}

	var w statement
	fmt.Fprintf(&w.sql, "INSERT INTO %s (%s) VALUES ", b.table, strings.Join(b.columns, ", "))
	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert: row %d has %d values for %d columns", i, len(row), len(b.columns))
		}
		if i > 0 {
			w.sql.WriteString(", ")
		}
		w.sql.WriteString("(")
		for j, v := range row {
			if j > 0 {
				w.sql.WriteString(", ")
			}
			w.bind(v)
		}
		w.sql.WriteString(")")
	}

	if len(b.conflict) > 0 {
		fmt.Fprintf(&w.sql, " ON CONFLICT (%s)", strings.Join(b.conflict, ", "))
		if len(b.update) == 0 {
			w.sql.WriteString(" DO NOTHING")
		} else {
			sets := make([]string, len(b.update))
			for i, col := range b.update {
				sets[i] = col + " = EXCLUDED." + col
			}
			w.sql.WriteString(" DO UPDATE SET ")
			w.sql.WriteString(strings.Join(sets, ", "))
		}
	}
	return w.sql.String(), w.args, nil
}
