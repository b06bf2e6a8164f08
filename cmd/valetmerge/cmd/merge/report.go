package merge

import (
	"strconv"
	"strings"

	"github.com/agentstation/valetmerge/internal/cmd/output"
	"github.com/agentstation/valetmerge/internal/pipeline"
)

// result is what merge prints in json and yaml when no report is asked for.
type result struct {
	OutputPath string           `json:"output_path" yaml:"output_path"`
	SQLitePath string           `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	Rows       int              `json:"rows" yaml:"rows"`
	Columns    []string         `json:"columns" yaml:"columns"`
	Preview    []map[string]any `json:"preview,omitempty" yaml:"preview,omitempty"`
}

func newResult(summary *pipeline.Summary, preview int) result {
	r := result{OutputPath: summary.OutputPath, SQLitePath: summary.SQLitePath}
	if summary.Table == nil {
		return r
	}
	r.Rows = summary.Table.Len()
	r.Columns = summary.Table.Names()
	if preview > 0 {
		r.Preview = output.Rows(summary.Table.Head(preview))
	}
	return r
}

// reportData lays out the per-field part of a run report.
func reportData(summary *pipeline.Summary) output.Data {
	data := output.Data{Headers: []string{"Field", "Source Columns", "Populated", "Conflicts"}}
	if summary.Report == nil {
		return data
	}
	for _, f := range summary.Report.Fields {
		sources := strings.Join(f.Sources, ", ")
		if sources == "" {
			sources = "-"
		}
		data.Rows = append(data.Rows, []string{
			f.Field,
			sources,
			strconv.Itoa(f.Populated),
			strconv.Itoa(f.Conflicts),
		})
	}
	return data
}
