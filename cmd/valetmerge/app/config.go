package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/valetmerge/internal/cmd/globals"
	"github.com/agentstation/valetmerge/pkg/constants"
	"github.com/agentstation/valetmerge/pkg/errors"
)

// EnvPrefix prefixes every environment variable read into the config.
const EnvPrefix = "VALETMERGE"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Feeds
	Sources []string
	Groups  []string
	BaseURL string

	// Merge behavior
	Output      string
	Schema      string
	DropEmpty   bool
	Strict      bool
	DedupFirst  bool
	BOM         bool
	SQLite      string
	SQLiteTable string
	PreviewRows int
	HTTPTimeout time.Duration

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	levelFromFlag bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by UpdateFromFlags and the commands)
// 2. Environment variables (VALETMERGE_*)
// 3. .env files
// 4. Config file (path, or .valetmerge.yaml in $HOME or .)
// 5. Defaults
func LoadConfig(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+path, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".valetmerge")

		// A missing default config file is fine.
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "failed to read config file", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		Sources: v.GetStringSlice("sources"),
		Groups:  v.GetStringSlice("groups"),
		BaseURL: v.GetString("base_url"),

		Output:      v.GetString("output"),
		Schema:      v.GetString("schema"),
		DropEmpty:   v.GetBool("drop_empty"),
		Strict:      v.GetBool("strict"),
		DedupFirst:  v.GetBool("dedup_first"),
		BOM:         v.GetBool("bom"),
		SQLite:      v.GetString("sqlite"),
		SQLiteTable: v.GetString("sqlite_table"),
		PreviewRows: v.GetInt("preview_rows"),
		HTTPTimeout: v.GetDuration("http_timeout"),

		LogLevel:  firstNonEmpty(v.GetString("log_level"), os.Getenv("LOG_LEVEL")),
		LogFormat: firstNonEmpty(v.GetString("log_format"), os.Getenv("LOG_FORMAT"), "auto"),
		LogOutput: firstNonEmpty(v.GetString("log_output"), os.Getenv("LOG_OUTPUT"), "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", constants.ValetBaseURL)
	v.SetDefault("output", constants.DefaultOutputFile)
	v.SetDefault("dedup_first", true)
	v.SetDefault("sqlite_table", constants.DefaultSQLiteTable)
	v.SetDefault("preview_rows", constants.DefaultPreviewRows)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
}

// Validate checks values that would otherwise fail much later.
func (c *Config) Validate() error {
	if c.PreviewRows < 0 {
		return errors.NewValidationError("preview_rows", c.PreviewRows, "must not be negative")
	}
	if c.HTTPTimeout < 0 {
		return errors.NewValidationError("http_timeout", c.HTTPTimeout, "must not be negative")
	}
	if c.Output == "" {
		return errors.NewValidationError("output", c.Output, "must not be empty")
	}
	return nil
}

// UpdateFromFlags updates config values from parsed global flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(flags *globals.Flags) {
	c.Verbose = c.Verbose || flags.Verbose
	c.Quiet = c.Quiet || flags.Quiet
	c.NoColor = c.NoColor || flags.NoColor
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
		c.levelFromFlag = true
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are kept.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
