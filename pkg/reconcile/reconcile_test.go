package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/schema"
	"github.com/agentstation/valetmerge/pkg/table"
)

// col builds a column; "<nil>" marks a null cell.
func col(name string, values ...string) table.Column {
	cells := make([]table.Cell, len(values))
	for i, v := range values {
		if v == "<nil>" {
			cells[i] = table.Null()
			continue
		}
		cells[i] = table.Value(v)
	}
	return table.Column{Name: name, Cells: cells}
}

func mustTable(t *testing.T, cols ...table.Column) *table.Table {
	t.Helper()
	tbl, err := table.FromColumns(cols...)
	require.NoError(t, err)
	return tbl
}

func column(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	c, ok := tbl.Column(name)
	require.True(t, ok, "missing column %q in %v", name, tbl.Names())
	out := make([]string, len(c.Cells))
	for i, cell := range c.Cells {
		out[i] = cell.String()
	}
	return out
}

var auctionDate = schema.FieldMapping{Name: "AUCTION DATE", Suffix: "_AUCTION_DATE"}

func TestCoalesce(t *testing.T) {
	tbl := mustTable(t,
		col("A_AUCTION_DATE", "2024-01-01", "<nil>"),
		col("B_AUCTION_DATE", "<nil>", "<nil>"),
	)

	out, fr, err := Coalesce(tbl, auctionDate, ConflictConcat)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01-01", ""}, column(t, out, "AUCTION DATE"))
	assert.Equal(t, []string{"A_AUCTION_DATE", "B_AUCTION_DATE"}, fr.Sources)
	assert.Equal(t, 1, fr.Populated)
	assert.Zero(t, fr.Conflicts)

	c, _ := out.Column("AUCTION DATE")
	for _, cell := range c.Cells {
		assert.False(t, cell.IsNull(), "canonical cells are never null")
	}

	// input untouched
	assert.Equal(t, []string{"A_AUCTION_DATE", "B_AUCTION_DATE"}, tbl.Names())
}

func TestCoalesceOneValuePerRow(t *testing.T) {
	tbl := mustTable(t,
		col("A_AUCTION_DATE", "2024-01-01", "<nil>", "<nil>"),
		col("B_AUCTION_DATE", "<nil>", "2024-02-01", "<nil>"),
		col("C_AUCTION_DATE", "<nil>", "<nil>", "2024-03-01"),
	)

	out, fr, err := Coalesce(tbl, auctionDate, ConflictConcat)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-01-01", "2024-02-01", "2024-03-01"}, column(t, out, "AUCTION DATE"))
	assert.Equal(t, 3, fr.Populated)
}

func TestCoalesceNoMatch(t *testing.T) {
	tbl := mustTable(t, col("date", "2024-01-01", "2024-01-08"))

	out, fr, err := Coalesce(tbl, auctionDate, ConflictConcat)
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "AUCTION DATE"}, out.Names())
	assert.Equal(t, []string{"", ""}, column(t, out, "AUCTION DATE"))
	assert.Empty(t, fr.Sources)
	assert.Zero(t, fr.Populated)
}

func TestCoalesceOverwritesInPlace(t *testing.T) {
	tbl := mustTable(t,
		col("AUCTION DATE", "stale", "stale"),
		col("date", "d1", "d2"),
		col("A_AUCTION_DATE", "2024-01-01", "<nil>"),
	)

	out, fr, err := Coalesce(tbl, auctionDate, ConflictConcat)
	require.NoError(t, err)
	assert.Equal(t, []string{"AUCTION DATE", "date", "A_AUCTION_DATE"}, out.Names())
	assert.Equal(t, []string{"2024-01-01", ""}, column(t, out, "AUCTION DATE"))
	assert.Equal(t, []string{"A_AUCTION_DATE"}, fr.Sources)
}

func TestCoalesceExplicitColumns(t *testing.T) {
	field := schema.FieldMapping{Name: "ISIN", Columns: []string{"isin", "CUSIP_OR_ISIN"}}
	tbl := mustTable(t,
		col("isin", "CA1", "<nil>"),
		col("CUSIP_OR_ISIN", "<nil>", "CA2"),
		col("other", "x", "y"),
	)

	out, fr, err := Coalesce(tbl, field, ConflictConcat)
	require.NoError(t, err)
	assert.Equal(t, []string{"CA1", "CA2"}, column(t, out, "ISIN"))
	assert.Equal(t, []string{"isin", "CUSIP_OR_ISIN"}, fr.Sources)
}

func TestCoalesceConflict(t *testing.T) {
	tbl := mustTable(t,
		col("A_AUCTION_DATE", "2024-01-01", "2024-02-01"),
		col("B_AUCTION_DATE", "2024-01-02", ""),
	)

	t.Run("concat", func(t *testing.T) {
		out, fr, err := Coalesce(tbl, auctionDate, ConflictConcat)
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-01-012024-01-02", "2024-02-01"}, column(t, out, "AUCTION DATE"))
		assert.Equal(t, 1, fr.Conflicts)
	})

	t.Run("error", func(t *testing.T) {
		_, _, err := Coalesce(tbl, auctionDate, ConflictError)
		require.Error(t, err)
		assert.True(t, errors.IsConflict(err))

		var ce *errors.ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "AUCTION DATE", ce.Field)
		assert.Equal(t, 0, ce.Row)
		assert.Equal(t, []string{"A_AUCTION_DATE", "B_AUCTION_DATE"}, ce.Columns)
	})
}

func TestPrune(t *testing.T) {
	tbl := mustTable(t,
		col("A_ISIN", "x"),
		col("A_TYPE", "x"),
		col("ISIN", "x"),
		col("date", "x"),
		col("KEEP_id", "x"),
	)

	out, removed := Prune(tbl, []string{"_ISIN", "_TYPE", "_id"}, map[string]bool{"KEEP_id": true})
	assert.Equal(t, []string{"ISIN", "date", "KEEP_id"}, out.Names())
	assert.Equal(t, []string{"A_ISIN", "A_TYPE"}, removed)
}

func TestStripWrapper(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"{'v': '3.25'}", "3.25"},
		{"3.25", "3.25"},
		{"", ""},
		{"{'v': '{'v': 'x'}'}", "x"},
		{"{'v': 'open", "open"},
		{"close'}", "close"},
		{"{'k': '1", "{'k': '1"},
		{"{'v': '100'}{'v': '5'}", "1005"},
		{"a{'v': 'b'}c", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := StripWrapper(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, StripWrapper(got), "stripping twice changes nothing")
		})
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	tbl := mustTable(t,
		col("YIELD", "{'v': '3.25'}", "3.25", "<nil>"),
		col("date", "2024-01-01", "{'v': '2024-01-08'}", ""),
	)

	once := Clean(tbl)
	twice := Clean(once)

	assert.Equal(t, []string{"3.25", "3.25", ""}, column(t, once, "YIELD"))
	assert.Equal(t, once.Columns(), twice.Columns())

	c, _ := once.Column("YIELD")
	assert.True(t, c.Cells[2].IsNull(), "null cells stay null")
}

func TestDropEmpty(t *testing.T) {
	tbl := mustTable(t,
		col("full", "a", "b"),
		col("blank", "", "<nil>"),
		col("partial", "", "c"),
	)

	out, removed := DropEmpty(tbl)
	assert.Equal(t, []string{"full", "partial"}, out.Names())
	assert.Equal(t, []string{"blank"}, removed)
}

func testSchema() *schema.Schema {
	return &schema.Schema{
		Fields: []schema.FieldMapping{
			{Name: "ISIN", Suffix: "_ISIN"},
			auctionDate,
			{Name: "AVERAGE YIELD", Suffix: "_AVG_YIELD"},
			{Name: "COUPON RATE", Suffix: "_COUPON_RATE"},
		},
		Drop: []string{"_ISIN", "_AUCTION_DATE", "_AVG_YIELD", "_COUPON_RATE", "_TYPE"},
	}
}

func merged(t *testing.T) *table.Table {
	t.Helper()
	a := table.FromRecords([]table.Record{
		table.NewRecord("d", "2024-01-01", "A_ISIN", "CA1", "A_AUCTION_DATE", "2024-01-01", "A_AVG_YIELD", "{'v': '3.25'}", "A_TYPE", "bill"),
	})
	b := table.FromRecords([]table.Record{
		table.NewRecord("d", "2024-01-08", "B_ISIN", "CA2", "B_AUCTION_DATE", "2024-01-08", "B_AVG_YIELD", "3.40"),
		table.NewRecord("d", "2024-01-15", "B_ISIN", "CA3", "B_AUCTION_DATE", nil, "B_AVG_YIELD", "3.50"),
	})
	return table.Concat(a, b)
}

func TestReconcile(t *testing.T) {
	r, err := New(testSchema())
	require.NoError(t, err)

	in := merged(t)
	out, report, err := r.Reconcile(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Len())
	assert.Equal(t, []string{"d", "ISIN", "AUCTION DATE", "AVERAGE YIELD", "COUPON RATE"}, out.Names())
	assert.Equal(t, []string{"CA1", "CA2", "CA3"}, column(t, out, "ISIN"))
	assert.Equal(t, []string{"2024-01-01", "2024-01-08", ""}, column(t, out, "AUCTION DATE"))
	assert.Equal(t, []string{"3.25", "3.40", "3.50"}, column(t, out, "AVERAGE YIELD"))
	assert.Equal(t, []string{"", "", ""}, column(t, out, "COUPON RATE"))

	assert.Equal(t, 3, report.InputRows)
	assert.Equal(t, in.Width(), report.InputColumns)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 5, report.Columns)
	assert.Len(t, report.Fields, 4)
	assert.Equal(t, []string{"COUPON RATE"}, report.Unmatched())
	assert.Zero(t, report.Conflicts())
	assert.Contains(t, report.Dropped, "A_TYPE")
	assert.False(t, report.StartedAt.IsZero())
	assert.GreaterOrEqual(t, report.FinishedAt.Unix(), report.StartedAt.Unix())

	// input untouched
	assert.Equal(t, in.Width(), merged(t).Width())
}

func TestReconcileWrappedConflict(t *testing.T) {
	r, err := New(schema.Default())
	require.NoError(t, err)

	// _AMOUNT also matches BOND_NON_COMPETE_AMOUNT, so both wrapped values
	// land in AMOUNT.
	in := mustTable(t,
		col("BOND_AMOUNT", "{'v': '100'}"),
		col("BOND_NON_COMPETE_AMOUNT", "{'v': '5'}"),
	)
	out, report, err := r.Reconcile(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []string{"1005"}, column(t, out, "AMOUNT"))
	assert.Equal(t, []string{"5"}, column(t, out, "TOTAL NON COMPETE SUBMITTED by GSP"))
	assert.Equal(t, 1, report.Conflicts())
	for _, name := range out.Names() {
		assert.NotContains(t, name, "BOND_")
	}
}

func TestReconcileUniqueNames(t *testing.T) {
	tbl := mustTable(t,
		col("d", "1"),
		col("d", "2"),
		col("A_ISIN", "CA1"),
		col("ISIN", "old"),
	)

	for _, dedupFirst := range []bool{true, false} {
		r, err := New(testSchema(), WithDedupFirst(dedupFirst))
		require.NoError(t, err)

		out, report, err := r.Reconcile(context.Background(), tbl)
		require.NoError(t, err)

		seen := map[string]bool{}
		for _, name := range out.Names() {
			assert.False(t, seen[name], "duplicate column %q", name)
			seen[name] = true
		}
		assert.Equal(t, []string{"1"}, column(t, out, "d"))
		assert.Equal(t, []string{"CA1"}, column(t, out, "ISIN"))
		assert.Equal(t, []string{"d"}, report.Duplicates)
	}
}

func TestReconcileDropEmpty(t *testing.T) {
	t.Run("enabled", func(t *testing.T) {
		r, err := New(testSchema(), WithDropEmpty(true))
		require.NoError(t, err)

		out, report, err := r.Reconcile(context.Background(), merged(t))
		require.NoError(t, err)
		assert.Equal(t, -1, out.Index("COUPON RATE"))
		assert.Equal(t, []string{"COUPON RATE"}, report.Empty)
	})

	t.Run("disabled", func(t *testing.T) {
		r, err := New(testSchema())
		require.NoError(t, err)

		out, report, err := r.Reconcile(context.Background(), merged(t))
		require.NoError(t, err)
		assert.Equal(t, []string{"", "", ""}, column(t, out, "COUPON RATE"))
		assert.Empty(t, report.Empty)
	})
}

func TestReconcileStrict(t *testing.T) {
	tbl := mustTable(t,
		col("A_ISIN", "CA1"),
		col("B_ISIN", "CA2"),
	)

	r, err := New(testSchema(), WithStrict(true))
	require.NoError(t, err)

	_, report, err := r.Reconcile(context.Background(), tbl)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
	require.Len(t, report.Fields, 1)
	assert.Equal(t, 1, report.Fields[0].Conflicts)
}

func TestReconcileLogsConflicts(t *testing.T) {
	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	tbl := mustTable(t,
		col("A_ISIN", "CA1"),
		col("B_ISIN", "CA2"),
	)

	r, err := New(testSchema())
	require.NoError(t, err)

	out, _, err := r.Reconcile(ctx, tbl)
	require.NoError(t, err)
	assert.Equal(t, []string{"CA1CA2"}, column(t, out, "ISIN"))
	tl.AssertContains(t, "Several sources populated the same field")
}

func TestReconcileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, err := New(nil)
	require.NoError(t, err)

	_, _, err = r.Reconcile(ctx, merged(t))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvalidSchema(t *testing.T) {
	_, err := New(&schema.Schema{Fields: []schema.FieldMapping{{Name: "X"}}})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNewDefaults(t *testing.T) {
	r, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, schema.Default(), r.Schema())
	assert.Equal(t, ConflictConcat, r.policy)
	assert.True(t, r.dedupFirst)
	assert.False(t, r.dropEmpty)
	assert.Equal(t, "concat", r.policy.String())
	assert.Equal(t, "error", ConflictError.String())
}
