// Package reconcile turns a merged table with source-specific column names
// into one column per semantic field.
//
// The work is split into stages that each take a table and return a new one:
//
//	Dedup -> Coalesce (per field) -> Prune -> Dedup -> Clean -> DropEmpty
//
// Reconciler runs them in that order according to its options; the stages
// are exported for callers that need a different arrangement.
package reconcile

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/schema"
	"github.com/agentstation/valetmerge/pkg/table"
)

// Reconciler applies a schema to merged tables.
type Reconciler struct {
	schema     *schema.Schema
	policy     ConflictPolicy
	dedupFirst bool
	dropEmpty  bool
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithStrict makes a multi-source conflict in any row an error.
func WithStrict(strict bool) Option {
	return func(r *Reconciler) {
		if strict {
			r.policy = ConflictError
		} else {
			r.policy = ConflictConcat
		}
	}
}

// WithDedupFirst toggles the duplicate-column pass before coalescing.
func WithDedupFirst(enabled bool) Option {
	return func(r *Reconciler) {
		r.dedupFirst = enabled
	}
}

// WithDropEmpty toggles removal of columns left entirely empty.
func WithDropEmpty(enabled bool) Option {
	return func(r *Reconciler) {
		r.dropEmpty = enabled
	}
}

// New creates a Reconciler for s. A nil schema means schema.Default().
func New(s *schema.Schema, opts ...Option) (*Reconciler, error) {
	if s == nil {
		s = schema.Default()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	r := &Reconciler{
		schema:     s,
		policy:     ConflictConcat,
		dedupFirst: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Schema returns the schema in use.
func (r *Reconciler) Schema() *schema.Schema {
	return r.schema
}

// Reconcile runs every stage over t and returns the resulting table and a
// report. t itself is not modified.
func (r *Reconciler) Reconcile(ctx context.Context, t *table.Table) (*table.Table, *Report, error) {
	logger := logging.FromContext(ctx)
	report := &Report{
		InputRows:    t.Len(),
		InputColumns: t.Width(),
		StartedAt:    utc.Now(),
	}

	if r.dedupFirst {
		var removed []string
		t, removed = Dedup(t)
		report.Duplicates = append(report.Duplicates, removed...)
	}

	canonical := make(map[string]bool, len(r.schema.Fields))
	for _, field := range r.schema.Fields {
		if err := ctx.Err(); err != nil {
			return nil, report, errors.WrapResource("reconcile", "table", field.Name, err)
		}

		var (
			fr  FieldReport
			err error
		)
		t, fr, err = Coalesce(t, field, r.policy)
		report.Fields = append(report.Fields, fr)
		if err != nil {
			return nil, report, err
		}
		canonical[field.Name] = true

		if fr.Conflicts > 0 {
			logger.Warn().
				Str("field", fr.Field).
				Int("rows", fr.Conflicts).
				Strs("columns", fr.Sources).
				Msg("Several sources populated the same field; values were concatenated")
		}
	}

	var removed []string
	t, removed = Prune(t, r.schema.Drop, canonical)
	report.Dropped = removed

	t, removed = Dedup(t)
	report.Duplicates = append(report.Duplicates, removed...)

	t = Clean(t)

	if r.dropEmpty {
		t, removed = DropEmpty(t)
		report.Empty = removed
	}

	report.Rows = t.Len()
	report.Columns = t.Width()
	report.FinishedAt = utc.Now()

	logger.Debug().
		Int("rows", report.Rows).
		Int("columns", report.Columns).
		Int("dropped", len(report.Dropped)).
		Int("duplicates", len(report.Duplicates)).
		Int("empty", len(report.Empty)).
		Strs("unmatched", report.Unmatched()).
		Msg("Reconciled merged table")

	return t, report, nil
}
