// Package appcontext provides the shared application context interface
// used by all commands. Command packages declare the subset they need;
// this is the full set the CLI app provides.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/valetmerge/internal/pipeline"
	"github.com/agentstation/valetmerge/internal/sources/valet"
	"github.com/agentstation/valetmerge/pkg/schema"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/valetmerge/app implements it.
type Interface interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table).
	OutputFormat() string

	// Sources returns the configured feeds in fetch order.
	Sources() []valet.Source

	// BaseURL returns the Valet API root used to build group URLs.
	BaseURL() string

	// Schema returns the configured schema, loading it from file if one is set.
	Schema() (*schema.Schema, error)

	// PipelineOptions returns merge options built from configuration.
	PipelineOptions() (pipeline.Options, error)

	// PreviewRows returns how many rows of the result to print.
	PreviewRows() int

	// NoColor reports whether colored output is disabled.
	NoColor() bool

	Version() string
	Commit() string
	Date() string
	BuiltBy() string
}
