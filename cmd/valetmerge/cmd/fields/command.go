// Package fields implements the fields command, which shows the schema
// merge applies.
package fields

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/valetmerge/internal/cmd/output"
	"github.com/agentstation/valetmerge/pkg/schema"
)

// AppContext defines what the fields command needs from the app.
type AppContext interface {
	Schema() (*schema.Schema, error)
	OutputFormat() string
}

// NewCommand creates the fields command.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "fields",
		GroupID: "core",
		Short:   "Show the field mappings and drop list",
		Long: `Fields prints the schema merge applies: every canonical column with the
suffix or column names that feed it, then the suffixes of the columns that
are dropped afterwards.

With -o yaml the output is a schema file that can be edited and passed back
with merge --schema.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := app.Schema()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			format := output.DetectFormat(app.OutputFormat())
			if !format.Tabular() {
				return output.NewFormatter(format).Format(w, s)
			}

			if err := output.NewFormatter(format).Format(w, s.Fields); err != nil {
				return err
			}
			_, err = fmt.Fprintf(w, "\nDropped suffixes: %s\n", strings.Join(s.Drop, " "))
			return err
		},
	}
}
