package reconcile

import "github.com/agentstation/utc"

// FieldReport describes how one canonical column was built.
type FieldReport struct {
	Field     string   `json:"field" yaml:"field"`
	Sources   []string `json:"sources" yaml:"sources"`
	Populated int      `json:"populated" yaml:"populated"`
	Conflicts int      `json:"conflicts" yaml:"conflicts"`
}

// Report summarizes a reconciliation.
type Report struct {
	InputRows    int           `json:"input_rows" yaml:"input_rows"`
	InputColumns int           `json:"input_columns" yaml:"input_columns"`
	Rows         int           `json:"rows" yaml:"rows"`
	Columns      int           `json:"columns" yaml:"columns"`
	Fields       []FieldReport `json:"fields" yaml:"fields"`
	Dropped      []string      `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Duplicates   []string      `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	Empty        []string      `json:"empty,omitempty" yaml:"empty,omitempty"`
	StartedAt    utc.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt   utc.Time      `json:"finished_at" yaml:"finished_at"`
}

// Conflicts returns the number of rows, over all fields, where more than one
// source column held a value.
func (r *Report) Conflicts() int {
	n := 0
	for _, f := range r.Fields {
		n += f.Conflicts
	}
	return n
}

// Unmatched returns the fields no source column fed.
func (r *Report) Unmatched() []string {
	var names []string
	for _, f := range r.Fields {
		if len(f.Sources) == 0 {
			names = append(names, f.Field)
		}
	}
	return names
}
