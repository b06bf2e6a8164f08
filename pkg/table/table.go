// Package table holds the in-memory tabular model the merge pipeline works on:
// ordered, possibly repeated column names over rows of nullable string cells.
//
// Tables are values. Every operation returns a new *Table and leaves its
// receiver untouched, so pipeline stages can be composed without caring who
// else holds a reference. Cell slices are shared between tables and are never
// written after construction.
package table

import "fmt"

// Column is a named sequence of cells, one per row.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is an ordered set of equal-length columns.
type Table struct {
	columns []Column
	rows    int
}

// New returns an empty table with no columns and no rows.
func New() *Table {
	return &Table{}
}

// FromColumns builds a table from columns that must all have the same length.
func FromColumns(cols ...Column) (*Table, error) {
	t := &Table{}
	for i, c := range cols {
		if i == 0 {
			t.rows = len(c.Cells)
		} else if len(c.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d cells, want %d", c.Name, len(c.Cells), t.rows)
		}
		t.columns = append(t.columns, c)
	}
	return t, nil
}

// FromRecords builds a table whose rows are the records, in order, and whose
// columns are the union of record keys in first-seen order. Keys missing from
// a record are null in its row.
func FromRecords(records []Record) *Table {
	index := make(map[string]int)
	var names []string
	for _, r := range records {
		for _, k := range r.keys {
			if _, ok := index[k]; !ok {
				index[k] = len(names)
				names = append(names, k)
			}
		}
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cells := make([]Cell, len(records))
		for row, r := range records {
			cells[row] = r.values[name]
		}
		cols[i] = Column{Name: name, Cells: cells}
	}
	return &Table{columns: cols, rows: len(records)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Width returns the number of columns, repeats included.
func (t *Table) Width() int {
	return len(t.columns)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The returned slice is a copy;
// the cells must not be modified.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

// Index returns the position of the first column called name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the first column called name.
func (t *Table) Column(name string) (Column, bool) {
	if i := t.Index(name); i >= 0 {
		return t.columns[i], true
	}
	return Column{}, false
}

// Row returns the cells of row i in column order.
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Cells[i]
	}
	return row
}

// Strings returns the cells of row i as text, null cells as "".
func (t *Table) Strings(i int) []string {
	row := make([]string, len(t.columns))
	for j, c := range t.columns {
		row[j] = c.Cells[i].String()
	}
	return row
}

// Set returns a table where col replaces the first column of the same name,
// keeping its position, or is appended when no such column exists.
func (t *Table) Set(col Column) (*Table, error) {
	if (len(t.columns) > 0 || t.rows > 0) && len(col.Cells) != t.rows {
		return nil, fmt.Errorf("column %q has %d cells, want %d", col.Name, len(col.Cells), t.rows)
	}

	out := &Table{columns: t.Columns(), rows: len(col.Cells)}
	if i := t.Index(col.Name); i >= 0 {
		out.columns[i] = col
		return out, nil
	}
	out.columns = append(out.columns, col)
	return out, nil
}

// Filter returns a table keeping only the columns for which keep returns true,
// together with the names of the removed columns.
func (t *Table) Filter(keep func(i int, c Column) bool) (*Table, []string) {
	out := &Table{rows: t.rows}
	var removed []string
	for i, c := range t.columns {
		if keep(i, c) {
			out.columns = append(out.columns, c)
		} else {
			removed = append(removed, c.Name)
		}
	}
	return out, removed
}

// Dedup returns a table in which only the first column of each name is kept,
// together with the names of the removed repeats.
func (t *Table) Dedup() (*Table, []string) {
	seen := make(map[string]bool, len(t.columns))
	return t.Filter(func(_ int, c Column) bool {
		if seen[c.Name] {
			return false
		}
		seen[c.Name] = true
		return true
	})
}

// Map returns a table with fn applied to every cell.
func (t *Table) Map(fn func(Cell) Cell) *Table {
	out := &Table{columns: make([]Column, len(t.columns)), rows: t.rows}
	for i, c := range t.columns {
		cells := make([]Cell, len(c.Cells))
		for j, cell := range c.Cells {
			cells[j] = fn(cell)
		}
		out.columns[i] = Column{Name: c.Name, Cells: cells}
	}
	return out
}

// Head returns a table with at most n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= t.rows {
		return t
	}
	out := &Table{columns: make([]Column, len(t.columns)), rows: n}
	for i, c := range t.columns {
		out.columns[i] = Column{Name: c.Name, Cells: c.Cells[:n:n]}
	}
	return out
}

// String renders a short description such as "table[12 rows x 4 cols]".
func (t *Table) String() string {
	return fmt.Sprintf("table[%d rows x %d cols]", t.rows, len(t.columns))
}

// Concat appends the rows of tables in order. The result's columns are the
// union of the inputs' columns in first-seen order, and cells a table does
// not have are null. The k-th column called x in an input lines up with the
// k-th column called x in the result.
func Concat(tables ...*Table) *Table {
	type key struct {
		name string
		n    int
	}

	index := make(map[key]int)
	var names []string
	rows := 0
	for _, t := range tables {
		seen := make(map[string]int)
		for _, c := range t.columns {
			k := key{c.Name, seen[c.Name]}
			seen[c.Name]++
			if _, ok := index[k]; !ok {
				index[k] = len(names)
				names = append(names, c.Name)
			}
		}
		rows += t.rows
	}

	cols := make([]Column, len(names))
	for i, name := range names {
		cols[i] = Column{Name: name, Cells: make([]Cell, rows)}
	}

	offset := 0
	for _, t := range tables {
		seen := make(map[string]int)
		for _, c := range t.columns {
			k := key{c.Name, seen[c.Name]}
			seen[c.Name]++
			copy(cols[index[k]].Cells[offset:], c.Cells)
		}
		offset += t.rows
	}

	return &Table{columns: cols, rows: rows}
}
