// Package pipeline wires fetching, reconciliation and export into the single
// merge run the CLI performs.
package pipeline

import (
	"context"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/valetmerge/internal/export"
	"github.com/agentstation/valetmerge/internal/sources/valet"
	"github.com/agentstation/valetmerge/internal/transport"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/reconcile"
	"github.com/agentstation/valetmerge/pkg/schema"
	"github.com/agentstation/valetmerge/pkg/table"
)

// Options control one run.
type Options struct {
	// Sources are fetched in order. Empty means valet.DefaultSources().
	Sources []valet.Source
	// Schema drives reconciliation. Nil means schema.Default().
	Schema *schema.Schema

	// Output is the CSV path. Empty means the default file name in the
	// working directory.
	Output string
	BOM    bool

	// SQLite, when set, also writes the table into that database.
	SQLite      string
	SQLiteTable string

	Strict     bool
	DedupFirst bool
	DropEmpty  bool

	HTTPTimeout time.Duration
}

// DefaultOptions returns the options of a plain run.
func DefaultOptions() Options {
	return Options{DedupFirst: true}
}

// Summary describes a finished run.
type Summary struct {
	RunID      string                 `json:"run_id" yaml:"run_id"`
	Fetched    []valet.Source         `json:"fetched" yaml:"fetched"`
	Failures   []errors.SourceFailure `json:"-" yaml:"-"`
	FetchRows  int                    `json:"fetched_rows" yaml:"fetched_rows"`
	Report     *reconcile.Report      `json:"report" yaml:"report"`
	OutputPath string                 `json:"output_path" yaml:"output_path"`
	SQLitePath string                 `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	StartedAt  utc.Time               `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time               `json:"finished_at" yaml:"finished_at"`

	// Table is the exported table.
	Table *table.Table `json:"-" yaml:"-"`
}

// FailedSources returns the names of the sources that contributed nothing.
func (s *Summary) FailedSources() []string {
	names := make([]string, len(s.Failures))
	for i, f := range s.Failures {
		names[i] = f.Source
	}
	return names
}

// Run fetches every source, merges and reconciles the results and writes
// the output. When no source yields data nothing is written and the error
// matches errors.ErrNoData; the returned summary still lists the failures.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	ctx, runID := logging.WithRunID(ctx)
	logger := logging.FromContext(ctx)

	summary := &Summary{RunID: runID, StartedAt: utc.Now()}

	r, err := reconcile.New(opts.Schema,
		reconcile.WithStrict(opts.Strict),
		reconcile.WithDedupFirst(opts.DedupFirst),
		reconcile.WithDropEmpty(opts.DropEmpty),
	)
	if err != nil {
		return summary, err
	}

	srcs := opts.Sources
	if len(srcs) == 0 {
		srcs = valet.DefaultSources()
	}

	fetcher := valet.NewFetcher(transport.New(transport.WithTimeout(opts.HTTPTimeout)))
	fetched, err := fetcher.FetchAll(logging.WithStage(ctx, "fetch"), srcs)
	if fetched != nil {
		summary.Fetched = fetched.Sources
		summary.Failures = fetched.Failures
		summary.FetchRows = fetched.Rows()
	}
	if err != nil {
		return summary, err
	}

	merged := fetched.Merged()
	logger.Info().
		Int("sources", len(fetched.Tables)).
		Int("failed", len(fetched.Failures)).
		Int("rows", merged.Len()).
		Int("columns", merged.Width()).
		Msg("Merged sources")

	final, report, err := r.Reconcile(logging.WithStage(ctx, "reconcile"), merged)
	summary.Report = report
	if err != nil {
		return summary, err
	}
	summary.Table = final

	summary.OutputPath, err = export.CSV(opts.Output, final, export.WithBOM(opts.BOM))
	if err != nil {
		return summary, err
	}
	logger.Info().Str("path", summary.OutputPath).Msg("Wrote CSV")

	if opts.SQLite != "" {
		summary.SQLitePath, err = export.SQLite(ctx, opts.SQLite, opts.SQLiteTable, final)
		if err != nil {
			return summary, err
		}
		logger.Info().Str("path", summary.SQLitePath).Msg("Wrote SQLite database")
	}

	summary.FinishedAt = utc.Now()
	return summary, nil
}
