// Package merge implements the merge command: fetch every configured feed,
// reconcile the columns and write the result.
package merge

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/valetmerge/internal/cmd/alerts"
	"github.com/agentstation/valetmerge/internal/cmd/output"
	"github.com/agentstation/valetmerge/internal/pipeline"
	"github.com/agentstation/valetmerge/internal/sources/valet"
	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/schema"
)

// AppContext defines what the merge command needs from the app.
type AppContext interface {
	Logger() *zerolog.Logger
	OutputFormat() string
	BaseURL() string
	PipelineOptions() (pipeline.Options, error)
	PreviewRows() int
	NoColor() bool
}

// Flags holds the merge command flags.
type Flags struct {
	Output       string
	Sources      []string
	Groups       []string
	Schema       string
	DropEmpty    bool
	Strict       bool
	NoDedupFirst bool
	BOM          bool
	SQLite       string
	Preview      int
	Report       bool
}

// NewCommand creates the merge command.
func NewCommand(app AppContext) *cobra.Command {
	return newCommand(app, &Flags{})
}

func newCommand(app AppContext, flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Fetch, reconcile and export the auction feeds",
		Long: `Merge downloads every configured Valet feed, stacks the observations into
one table, folds the source-specific columns into one column per field and
writes the result as CSV.

Sources that fail are reported and skipped. When none succeeds nothing is
written and the command exits with status 1.`,
		Example: `  valetmerge merge                                  # Default groups to "Total Merge.csv"
  valetmerge merge --group AUC_BOND --group AUC_BOND_R
  valetmerge merge -f auctions.csv --drop-empty --sqlite auctions.db
  valetmerge merge --report -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := resolveOptions(cmd, app, flags)
			if err != nil {
				return err
			}
			preview := app.PreviewRows()
			if cmd.Flags().Changed("preview") {
				preview = flags.Preview
			}

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			summary, err := pipeline.Run(ctx, opts)
			if err != nil {
				return err
			}

			if len(summary.Failures) > 0 {
				if err := warnFailures(cmd.ErrOrStderr(), !app.NoColor() && isTerminal(cmd.ErrOrStderr()), summary); err != nil {
					return err
				}
			}

			return printSummary(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), summary, preview, flags.Report)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Output, "output", "f", "", "CSV file to write (default \"Total Merge.csv\")")
	f.StringArrayVar(&flags.Sources, "source", nil, "feed URL to fetch (repeatable, replaces configured sources)")
	f.StringArrayVar(&flags.Groups, "group", nil, "Valet series group to fetch (repeatable, replaces configured sources)")
	f.StringVar(&flags.Schema, "schema", "", "YAML schema file (default is the built-in Valet schema)")
	f.BoolVar(&flags.DropEmpty, "drop-empty", false, "remove columns that are empty in every row")
	f.BoolVar(&flags.Strict, "strict", false, "fail when several sources fill the same field in one row")
	f.BoolVar(&flags.NoDedupFirst, "no-dedup-first", false, "skip the duplicate-column pass before coalescing")
	f.BoolVar(&flags.BOM, "bom", false, "start the CSV with a UTF-8 byte order mark")
	f.StringVar(&flags.SQLite, "sqlite", "", "also write the table into this SQLite database")
	f.IntVar(&flags.Preview, "preview", 0,
		fmt.Sprintf("rows of the result to print, 0 disables (default preview_rows from config, else %d)", constants.DefaultPreviewRows))
	f.BoolVar(&flags.Report, "report", false, "print the reconciliation report")

	return cmd
}

// resolveOptions starts from the configured options and applies the flags
// the user set explicitly.
func resolveOptions(cmd *cobra.Command, app AppContext, flags *Flags) (pipeline.Options, error) {
	opts, err := app.PipelineOptions()
	if err != nil {
		return opts, err
	}

	f := cmd.Flags()
	if f.Changed("output") {
		opts.Output = flags.Output
	}
	if f.Changed("source") || f.Changed("group") {
		opts.Sources = append(valet.URLSources(flags.Sources...), valet.GroupSources(app.BaseURL(), flags.Groups...)...)
	}
	if f.Changed("schema") {
		s, err := schema.Load(flags.Schema)
		if err != nil {
			return opts, err
		}
		opts.Schema = s
	}
	if f.Changed("drop-empty") {
		opts.DropEmpty = flags.DropEmpty
	}
	if f.Changed("strict") {
		opts.Strict = flags.Strict
	}
	if f.Changed("no-dedup-first") {
		opts.DedupFirst = !flags.NoDedupFirst
	}
	if f.Changed("bom") {
		opts.BOM = flags.BOM
	}
	if f.Changed("sqlite") {
		opts.SQLite = flags.SQLite
	}
	return opts, nil
}

func printSummary(w io.Writer, format output.Format, summary *pipeline.Summary, preview int, report bool) error {
	if !format.Tabular() {
		if report {
			return output.NewFormatter(format).Format(w, summary)
		}
		return output.NewFormatter(format).Format(w, newResult(summary, preview))
	}

	if err := output.Preview(w, format, summary.Table, preview); err != nil {
		return err
	}
	if report {
		if err := output.NewFormatter(format).Format(w, reportData(summary)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Merged table saved as '%s'\n", summary.OutputPath)
	if err == nil && summary.SQLitePath != "" {
		_, err = fmt.Fprintf(w, "SQLite table written to '%s'\n", summary.SQLitePath)
	}
	return err
}

// warnFailures tells the user which sources were skipped.
func warnFailures(w io.Writer, color bool, summary *pipeline.Summary) error {
	a := alerts.NewWarning(fmt.Sprintf("%d of %d sources failed and were skipped",
		len(summary.Failures), len(summary.Failures)+len(summary.Fetched)))
	for _, f := range summary.Failures {
		a.WithDetails(fmt.Sprintf("%s: %v", f.Source, f.Err))
	}
	return alerts.NewWriter(w, color).Write(a)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
