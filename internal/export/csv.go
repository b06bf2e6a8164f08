// Package export writes reconciled tables to their destinations.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/table"
)

type csvOptions struct {
	bom bool
}

// CSVOption configures CSV output.
type CSVOption func(*csvOptions)

// WithBOM prefixes the output with a UTF-8 byte order mark, which some
// spreadsheet programs need to detect the encoding.
func WithBOM(enabled bool) CSVOption {
	return func(o *csvOptions) {
		o.bom = enabled
	}
}

// WriteCSV writes t as comma-separated text: a header row with the column
// names, then one record per row with null cells as empty fields.
func WriteCSV(w io.Writer, t *table.Table, opts ...CSVOption) error {
	var o csvOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.bom {
		enc := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
		if err := writeRecords(enc, t); err != nil {
			return err
		}
		return enc.Close()
	}
	return writeRecords(w, t)
}

func writeRecords(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		if err := cw.Write(t.Strings(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV writes t to path, replacing any existing file, and returns the
// absolute path written. An empty path means constants.DefaultOutputFile in
// the working directory. The file is written in place.
func CSV(path string, t *table.Table, opts ...CSVOption) (string, error) {
	if path == "" {
		path = constants.DefaultOutputFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.WrapIO("resolve", path, err)
	}

	f, err := os.OpenFile(abs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions) //nolint:gosec // path comes from the operator
	if err != nil {
		return "", errors.WrapIO("create", abs, err)
	}

	if err := WriteCSV(f, t, opts...); err != nil {
		_ = f.Close()
		return "", errors.WrapIO("write", abs, err)
	}
	if err := f.Close(); err != nil {
		return "", errors.WrapIO("close", abs, err)
	}
	return abs, nil
}
