package pipeline

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/valetmerge/internal/sources/valet"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/schema"
)

func server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/observations/group/A/json":
			_, _ = w.Write([]byte(`{"observations": [
				{"d": "2024-01-01", "A_AUCTION_DATE": {"v": "2024-01-01"}, "A_AVG_YIELD": {"v": "3.25"}, "A_TYPE": {"v": "bill"}}
			]}`))
		case "/observations/group/B/json":
			_, _ = w.Write([]byte(`{"observations": [
				{"d": "2024-02-01", "B_AUCTION_DATE": null, "B_AVG_YIELD": "3.40"}
			]}`))
		default:
			http.Error(w, "no such group", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testSchema() *schema.Schema {
	return &schema.Schema{
		Fields: []schema.FieldMapping{
			{Name: "AUCTION DATE", Suffix: "_AUCTION_DATE"},
			{Name: "AVERAGE YIELD", Suffix: "_AVG_YIELD"},
			{Name: "COUPON RATE", Suffix: "_COUPON_RATE"},
		},
		Drop: []string{"_AUCTION_DATE", "_AVG_YIELD", "_COUPON_RATE", "_TYPE"},
	}
}

func TestRun(t *testing.T) {
	srv := server(t)
	dir := t.TempDir()

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	opts := DefaultOptions()
	opts.Sources = valet.GroupSources(srv.URL, "A", "missing", "B")
	opts.Schema = testSchema()
	opts.Output = filepath.Join(dir, "Total Merge.csv")
	opts.SQLite = filepath.Join(dir, "merge.db")

	summary, err := Run(ctx, opts)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Len(t, summary.Fetched, 2)
	assert.Equal(t, []string{"missing"}, summary.FailedSources())
	assert.Equal(t, 2, summary.FetchRows)
	assert.Equal(t, summary.FetchRows, summary.Table.Len())
	assert.Equal(t, opts.Output, summary.OutputPath)
	assert.False(t, summary.FinishedAt.IsZero())

	data, err := os.ReadFile(summary.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "d,AUCTION DATE,AVERAGE YIELD,COUPON RATE\n"+
		"2024-01-01,2024-01-01,3.25,\n"+
		"2024-02-01,,3.40,\n", string(data))

	db, err := sql.Open("sqlite", summary.SQLitePath)
	require.NoError(t, err)
	defer db.Close()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM total_merge`).Scan(&n))
	assert.Equal(t, 2, n)

	tl.AssertContains(t, `"source":"missing"`)
	tl.AssertContains(t, summary.RunID)
}

func TestRunDropEmpty(t *testing.T) {
	srv := server(t)

	opts := DefaultOptions()
	opts.Sources = valet.GroupSources(srv.URL, "A", "B")
	opts.Schema = testSchema()
	opts.Output = filepath.Join(t.TempDir(), "out.csv")
	opts.DropEmpty = true

	summary, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "AUCTION DATE", "AVERAGE YIELD"}, summary.Table.Names())
	assert.Equal(t, []string{"COUPON RATE"}, summary.Report.Empty)
}

func TestRunNoData(t *testing.T) {
	srv := server(t)
	out := filepath.Join(t.TempDir(), "out.csv")

	tl := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), tl.Logger)

	opts := DefaultOptions()
	opts.Sources = valet.GroupSources(srv.URL, "X", "Y")
	opts.Output = out

	summary, err := Run(ctx, opts)
	require.Error(t, err)
	assert.True(t, errors.IsNoData(err))
	assert.Equal(t, []string{"X", "Y"}, summary.FailedSources())
	assert.NoFileExists(t, out)
	assert.Equal(t, 2, tl.Count())
}

func TestRunInvalidSchema(t *testing.T) {
	opts := DefaultOptions()
	opts.Schema = &schema.Schema{Fields: []schema.FieldMapping{{Name: ""}}}

	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
