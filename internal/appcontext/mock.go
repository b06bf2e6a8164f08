package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/valetmerge/internal/pipeline"
	"github.com/agentstation/valetmerge/internal/sources/valet"
	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/logging"
	"github.com/agentstation/valetmerge/pkg/schema"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoggerFunc          func() *zerolog.Logger
	OutputFormatFunc    func() string
	SourcesFunc         func() []valet.Source
	BaseURLFunc         func() string
	SchemaFunc          func() (*schema.Schema, error)
	PipelineOptionsFunc func() (pipeline.Options, error)
	PreviewRowsFunc     func() int
	VersionFunc         func() string
}

// Logger returns the mock logger or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns the mock format or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Sources returns the mock sources or the default feeds.
func (m *Mock) Sources() []valet.Source {
	if m.SourcesFunc != nil {
		return m.SourcesFunc()
	}
	return valet.DefaultSources()
}

// BaseURL returns the mock base URL or the public Valet root.
func (m *Mock) BaseURL() string {
	if m.BaseURLFunc != nil {
		return m.BaseURLFunc()
	}
	return constants.ValetBaseURL
}

// Schema returns the mock schema or the default one.
func (m *Mock) Schema() (*schema.Schema, error) {
	if m.SchemaFunc != nil {
		return m.SchemaFunc()
	}
	return schema.Default(), nil
}

// PipelineOptions returns the mock options or the defaults.
func (m *Mock) PipelineOptions() (pipeline.Options, error) {
	if m.PipelineOptionsFunc != nil {
		return m.PipelineOptionsFunc()
	}
	return pipeline.DefaultOptions(), nil
}

// PreviewRows returns the mock row count or zero.
func (m *Mock) PreviewRows() int {
	if m.PreviewRowsFunc != nil {
		return m.PreviewRowsFunc()
	}
	return 0
}

// NoColor returns true.
func (m *Mock) NoColor() bool { return true }

// Version returns the mock version or "test".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "test"
}

// Commit returns "unknown".
func (m *Mock) Commit() string { return "unknown" }

// Date returns "unknown".
func (m *Mock) Date() string { return "unknown" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

var _ Interface = (*Mock)(nil)
