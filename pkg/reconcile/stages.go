package reconcile

import (
	"strings"

	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/schema"
	"github.com/agentstation/valetmerge/pkg/table"
)

// ConflictPolicy decides what happens when more than one matched column
// holds a value in the same row.
type ConflictPolicy int

const (
	// ConflictConcat joins the values in column order and carries on.
	ConflictConcat ConflictPolicy = iota
	// ConflictError stops reconciliation with an *errors.ConflictError.
	ConflictError
)

// String returns the policy name.
func (p ConflictPolicy) String() string {
	switch p {
	case ConflictError:
		return "error"
	default:
		return "concat"
	}
}

// Coalesce builds the canonical column for one field. For every row the
// non-null values of the matched columns are joined, in column order, with no
// separator; a row with no value gets an empty string. A column already named
// like the canonical field is replaced in place and never used as input.
//
// A field that matches no column still yields an all-empty column.
func Coalesce(t *table.Table, field schema.FieldMapping, policy ConflictPolicy) (*table.Table, FieldReport, error) {
	report := FieldReport{Field: field.Name}

	var matched []table.Column
	for _, c := range t.Columns() {
		if c.Name != field.Name && field.Matches(c.Name) {
			matched = append(matched, c)
			report.Sources = append(report.Sources, c.Name)
		}
	}

	cells := make([]table.Cell, t.Len())
	var b strings.Builder
	for row := range cells {
		b.Reset()
		filled := 0
		for _, c := range matched {
			cell := c.Cells[row]
			if cell.IsNull() {
				continue
			}
			b.WriteString(cell.String())
			if cell.String() != "" {
				filled++
			}
		}

		if filled > 0 {
			report.Populated++
		}
		if filled > 1 {
			report.Conflicts++
			if policy == ConflictError {
				return nil, report, &errors.ConflictError{
					Field:   field.Name,
					Row:     row,
					Columns: filledColumns(matched, row),
				}
			}
		}
		cells[row] = table.Value(b.String())
	}

	out, err := t.Set(table.Column{Name: field.Name, Cells: cells})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}

func filledColumns(cols []table.Column, row int) []string {
	var names []string
	for _, c := range cols {
		if !c.Cells[row].IsEmpty() {
			names = append(names, c.Name)
		}
	}
	return names
}

// Prune removes every column whose name ends with one of suffixes, except
// the columns named in keep.
func Prune(t *table.Table, suffixes []string, keep map[string]bool) (*table.Table, []string) {
	return t.Filter(func(_ int, c table.Column) bool {
		if keep[c.Name] {
			return true
		}
		for _, s := range suffixes {
			if strings.HasSuffix(c.Name, s) {
				return false
			}
		}
		return true
	})
}

// Dedup keeps the first column of every name.
func Dedup(t *table.Table) (*table.Table, []string) {
	return t.Dedup()
}

// Clean strips the value-wrapping artifact from every non-null cell.
func Clean(t *table.Table) *table.Table {
	return t.Map(func(c table.Cell) table.Cell {
		if c.IsNull() {
			return c
		}
		return table.Value(StripWrapper(c.String()))
	})
}

// StripWrapper removes every {'v': ' and every '} from s, repeating until
// neither is present, so concatenated wrapped values collapse to their
// contents. Text that is not wrapped comes back unchanged. Applying it twice
// gives the same result as applying it once.
func StripWrapper(s string) string {
	for {
		out := strings.ReplaceAll(s, constants.WrapperPrefix, "")
		out = strings.ReplaceAll(out, constants.WrapperSuffix, "")
		if out == s {
			return s
		}
		s = out
	}
}

// DropEmpty removes columns in which every cell is null or empty.
func DropEmpty(t *table.Table) (*table.Table, []string) {
	return t.Filter(func(_ int, c table.Column) bool {
		for _, cell := range c.Cells {
			if !cell.IsEmpty() {
				return true
			}
		}
		return false
	})
}
