// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	md "github.com/nao1215/markdown"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/valetmerge/pkg/table"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatMarkdown represents GitHub-flavored markdown tables.
	FormatMarkdown Format = "markdown"
)

// Tabular reports whether the format lays data out in rows and columns.
func (f Format) Tabular() bool {
	return f == FormatTable || f == FormatMarkdown
}

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// Tabular is implemented by values that know how to lay themselves out as
// a table.
type Tabular interface {
	TableData() Data
}

// NewFormatter creates appropriate formatter based on format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(jsonValue(data))
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(jsonValue(data),
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// jsonValue turns a table into a list of row objects so that it encodes to
// something readable. Other values pass through.
func jsonValue(data any) any {
	if t, ok := data.(*table.Table); ok {
		return Rows(t)
	}
	return data
}

// Rows lays t out as one object per row keyed by column name. Null cells
// become nil.
func Rows(t *table.Table) []map[string]any {
	names := t.Names()
	rows := make([]map[string]any, t.Len())
	for i := range rows {
		row := make(map[string]any, len(names))
		for j, c := range t.Row(i) {
			if c.IsNull() {
				row[names[j]] = nil
			} else {
				row[names[j]] = c.String()
			}
		}
		rows[i] = row
	}
	return rows
}

// tabulate lays data out as rows when it has a tabular shape.
func tabulate(data any) (Data, bool) {
	switch v := data.(type) {
	case Data:
		return v, true
	case Tabular:
		return v.TableData(), true
	case *table.Table:
		return FromTable(v), true
	default:
		if tableData := convertToTableData(data); tableData != nil {
			return *tableData, true
		}
		return Data{}, false
	}
}

// TableFormatter outputs table format.
type TableFormatter struct{}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if tableData, ok := tabulate(data); ok {
		return f.formatTable(w, tableData)
	}

	// Fall back to JSON for non-table data
	jsonFormatter := &JSONFormatter{Indent: "  "}
	return jsonFormatter.Format(w, data)
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	tbl := tablewriter.NewTable(w)

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		tbl.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := tbl.Append(rowData...); err != nil {
			return err
		}
	}

	return tbl.Render()
}

// MarkdownFormatter outputs markdown tables.
type MarkdownFormatter struct{}

// Format writes data as a markdown table, or as a fenced JSON block when it
// has no tabular shape.
func (f *MarkdownFormatter) Format(w io.Writer, data any) error {
	doc := md.NewMarkdown(w)
	if tableData, ok := tabulate(data); ok {
		doc.Table(md.TableSet{Header: tableData.Headers, Rows: tableData.Rows})
		return doc.Build()
	}

	b, err := json.MarshalIndent(jsonValue(data), "", "  ")
	if err != nil {
		return err
	}
	doc.CodeBlocks(md.SyntaxHighlight("json"), string(b))
	return doc.Build()
}

// Data represents data formatted for table output.
type Data struct {
	Headers []string
	Rows    [][]string
}

// FromTable lays out a merged table. Null cells show as empty.
func FromTable(t *table.Table) Data {
	rows := make([][]string, t.Len())
	for i := range rows {
		rows[i] = t.Strings(i)
	}
	return Data{Headers: t.Names(), Rows: rows}
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		if f, err := ParseFormat(explicitFormat); err == nil {
			return f
		}
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case "md":
		return FormatMarkdown, nil
	case FormatTable, FormatJSON, FormatYAML, FormatMarkdown, "":
		return format, nil
	default:
		return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, markdown", s)
	}
}

// convertToTableData lays out a slice of structs, one row per element, with
// headers taken from the json tags.
func convertToTableData(data any) *Data {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || v.Len() == 0 || v.Index(0).Kind() != reflect.Struct {
		return nil
	}

	elemType := v.Index(0).Type()
	headers := make([]string, 0, elemType.NumField())
	for i := 0; i < elemType.NumField(); i++ {
		headers = append(headers, headerName(elemType.Field(i)))
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		row := make([]string, 0, elem.NumField())
		for j := 0; j < elem.NumField(); j++ {
			row = append(row, cellText(elem.Field(j)))
		}
		rows = append(rows, row)
	}

	return &Data{Headers: headers, Rows: rows}
}

func headerName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(tag, "_", " "))
}

func cellText(v reflect.Value) string {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.String {
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = v.Index(i).String()
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprintf("%v", v.Interface())
}
