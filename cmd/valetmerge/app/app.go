// Package app provides the application context and dependency management
// for the valetmerge CLI: configuration, logging and the wiring of commands.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/valetmerge/internal/appcontext"
	"github.com/agentstation/valetmerge/internal/pipeline"
	"github.com/agentstation/valetmerge/internal/sources/valet"
	"github.com/agentstation/valetmerge/pkg/errors"
	"github.com/agentstation/valetmerge/pkg/schema"
)

// App represents the valetmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
// The app is initialized with the loaded configuration, which can be
// replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig("")
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// BaseURL returns the Valet API root.
func (a *App) BaseURL() string {
	return a.config.BaseURL
}

// PreviewRows returns how many result rows merge prints.
func (a *App) PreviewRows() int {
	return a.config.PreviewRows
}

// NoColor reports whether colored output is disabled.
func (a *App) NoColor() bool {
	return a.config.NoColor
}

// Sources returns the configured feeds: explicit URLs first, then groups.
// With neither configured, the default auction groups are used.
func (a *App) Sources() []valet.Source {
	srcs := append(valet.URLSources(a.config.Sources...), valet.GroupSources(a.config.BaseURL, a.config.Groups...)...)
	if len(srcs) == 0 {
		return valet.GroupSources(a.config.BaseURL, valet.DefaultGroups...)
	}
	return srcs
}

// Schema returns the schema from the configured file, or the built-in one.
func (a *App) Schema() (*schema.Schema, error) {
	if a.config.Schema == "" {
		return schema.Default(), nil
	}
	return schema.Load(a.config.Schema)
}

// PipelineOptions builds merge options from the configuration.
func (a *App) PipelineOptions() (pipeline.Options, error) {
	s, err := a.Schema()
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Sources:     a.Sources(),
		Schema:      s,
		Output:      a.config.Output,
		BOM:         a.config.BOM,
		SQLite:      a.config.SQLite,
		SQLiteTable: a.config.SQLiteTable,
		Strict:      a.config.Strict,
		DedupFirst:  a.config.DedupFirst,
		DropEmpty:   a.config.DropEmpty,
		HTTPTimeout: a.config.HTTPTimeout,
	}, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

var _ appcontext.Interface = (*App)(nil)
