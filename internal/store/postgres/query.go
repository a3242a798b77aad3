package postgres

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/nest/internal/backend"
)

// nullable columns compare an empty filter value as IS NULL.
var nullable = map[string]bool{
	backend.ColumnFolderID: true,
}

// table describes the SQL side of one collection. Column names only ever
// come from this struct or from a filter that passed check.
type table struct {
	name    string
	columns []string
	check   func(filters []backend.Filter, order *backend.Order) error
}

func (t table) where(filters []backend.Filter, args []any) (string, []any) {
	if len(filters) == 0 {
		return "", args
	}
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		if f.Value == "" && nullable[f.Column] {
			parts = append(parts, f.Column+" IS NULL")
			continue
		}
		args = append(args, f.Value)
		parts = append(parts, fmt.Sprintf("%s = $%d", f.Column, len(args)))
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (t table) selectSQL(q backend.Query) (string, []any, error) {
	if err := t.check(q.Filters, q.Order); err != nil {
		return "", nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(t.columns, ", "), t.name)

	where, args := t.where(q.Filters, nil)
	b.WriteString(where)

	if q.Order != nil {
		dir := "ASC"
		if q.Order.Descending {
			dir = "DESC"
		}
		fmt.Fprintf(&b, " ORDER BY %s %s, id %s", q.Order.Column, dir, dir)
	}
	return b.String(), args, nil
}

func (t table) deleteSQL(filters []backend.Filter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, backend.ErrNoFilter
	}
	if err := t.check(filters, nil); err != nil {
		return "", nil, err
	}
	where, args := t.where(filters, nil)
	return "DELETE FROM " + t.name + where, args, nil
}

// insertSQL builds one multi-row insert. Each entry of rows holds the
// values of t.columns, in order.
func (t table) insertSQL(rows [][]any) (string, []any) {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", t.name, strings.Join(t.columns, ", "))

	args := make([]any, 0, len(rows)*len(t.columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				b.WriteString(", ")
			}
			args = append(args, v)
			fmt.Fprintf(&b, "$%d", len(args))
		}
		b.WriteByte(')')
	}
	return b.String(), args
}
