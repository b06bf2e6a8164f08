package output

import (
	"fmt"
	"io"

	"github.com/agentstation/valetmerge/pkg/table"
)

// Preview renders at most rows rows of t in the given tabular format,
// followed by a line counting the rows left out. rows <= 0 renders nothing.
func Preview(w io.Writer, format Format, t *table.Table, rows int) error {
	if rows <= 0 {
		return nil
	}
	if !format.Tabular() {
		format = FormatTable
	}
	if err := NewFormatter(format).Format(w, t.Head(rows)); err != nil {
		return err
	}
	if rest := t.Len() - rows; rest > 0 {
		_, err := fmt.Fprintf(w, "... %d more rows (%d rows x %d columns)\n", rest, t.Len(), t.Width())
		return err
	}
	return nil
}
