// Package config provides configuration types and defaults for glformats.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/zjrosen/glformats/internal/formats"
	"github.com/zjrosen/glformats/internal/log"
	"github.com/zjrosen/glformats/internal/tracing"
)

// DefaultRegistryPath is where the registry lives in a checkout with the API
// headers vendored under external/.
const DefaultRegistryPath = "external/gl/xml/gl.xml"

// Config holds all configuration options for glformats.
type Config struct {
	Registry  RegistryConfig `mapstructure:"registry"`
	Output    OutputConfig   `mapstructure:"output"`
	Rules     RulesConfig    `mapstructure:"rules"`
	Checklist []string       `mapstructure:"checklist"` // Formats that must be present; empty uses the built-in list
	Strict    bool           `mapstructure:"strict"`    // Exit non-zero when a checklist format is missing
	Debug     bool           `mapstructure:"debug"`
	LogFile   string         `mapstructure:"log_file"`  // Empty logs to stderr when debug is on
	LogLevel  string         `mapstructure:"log_level"` // debug (default), info, warn, error
	Watch     WatchConfig    `mapstructure:"watch"`
	Tracing   TracingConfig  `mapstructure:"tracing"`
}

// RegistryConfig locates the registry document.
type RegistryConfig struct {
	Path     string        `mapstructure:"path"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // How long a parsed registry is reused while unchanged
}

// OutputConfig controls rendering of the format lines.
type OutputConfig struct {
	Path      string `mapstructure:"path"`   // Empty writes to stdout
	Prefix    string `mapstructure:"prefix"` // Stripped from every name
	Indent    string `mapstructure:"indent"`
	Separator string `mapstructure:"separator"`
}

// RulesConfig selects the pass list.
type RulesConfig struct {
	File string `mapstructure:"file"` // Empty uses the built-in passes
}

// WatchConfig holds watch mode options.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// TracingConfig holds OpenTelemetry options.
type TracingConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	Exporter     string  `mapstructure:"exporter"` // none, file, stdout, otlp
	FilePath     string  `mapstructure:"file_path"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// TracingProviderConfig converts to the tracing package's config.
func (t TracingConfig) TracingProviderConfig() tracing.Config {
	cfg := tracing.DefaultConfig()
	cfg.Enabled = t.Enabled
	if t.Exporter != "" {
		cfg.Exporter = t.Exporter
	}
	cfg.FilePath = t.FilePath
	if t.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = t.OTLPEndpoint
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

// RenderOptions converts the output section into renderer options.
func (o OutputConfig) RenderOptions() formats.RenderOptions {
	return formats.RenderOptions{
		Prefix:    o.Prefix,
		Indent:    o.Indent,
		Separator: o.Separator,
	}
}

// GetChecklist returns the configured checklist or the built-in one.
func (c Config) GetChecklist() []string {
	if len(c.Checklist) == 0 {
		return formats.DefaultChecklist()
	}
	return slices.Clone(c.Checklist)
}

// DefaultTracesFilePath returns ~/.config/glformats/traces/traces.jsonl, or an
// empty string if the home directory is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "glformats", "traces", "traces.jsonl")
}

// Defaults returns the default configuration.
func Defaults() Config {
	render := formats.DefaultRenderOptions()
	return Config{
		Registry: RegistryConfig{
			Path:     DefaultRegistryPath,
			CacheTTL: 10 * time.Minute,
		},
		Output: OutputConfig{
			Prefix:    render.Prefix,
			Indent:    render.Indent,
			Separator: render.Separator,
		},
		LogLevel: "debug",
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
		Tracing: TracingConfig{
			Enabled:      false,
			Exporter:     "file",
			FilePath:     "", // Derived from the home directory at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
		},
	}
}

// Validate checks the configuration for errors.
func Validate(c Config) error {
	if c.Registry.Path == "" {
		return fmt.Errorf("registry.path is required")
	}
	if c.Registry.CacheTTL < 0 {
		return fmt.Errorf("registry.cache_ttl must not be negative, got %s", c.Registry.CacheTTL)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	for i, name := range c.Checklist {
		if name == "" {
			return fmt.Errorf("checklist entry %d is empty", i)
		}
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be \"debug\", \"info\", \"warn\", or \"error\", got %q", c.LogLevel)
	}
	return ValidateTracing(c.Tracing)
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tracing TracingConfig) error {
	if tracing.SampleRate < 0.0 || tracing.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tracing.SampleRate)
	}

	if tracing.Exporter != "" {
		switch tracing.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tracing.Exporter)
		}
	}

	if tracing.Enabled && tracing.Exporter == "otlp" && tracing.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# glformats configuration

registry:
  # Registry document to read
  path: external/gl/xml/gl.xml
  # How long watch mode reuses a parsed registry that has not changed
  cache_ttl: 10m

output:
  # Destination file; leave empty to write to stdout
  # path: src/gl/internal_formats.inl
  prefix: GL_       # Stripped from every enumerant name
  indent: ""        # e.g. "    " to paste into an enum body
  separator: ","

rules:
  # Replace the built-in passes with a YAML rule file
  # (run 'glformats rules' to print the built-in list)
  # file: .glformats/rules.yaml

# Formats that must be present in the output. Leaving this unset uses the
# built-in list of locally decoded formats.
# checklist:
#   - GL_COMPRESSED_RGBA_BPTC_UNORM
#   - GL_COMPRESSED_RGB8_ETC2

# Exit non-zero when a checklist format is missing
strict: false

watch:
  debounce: 500ms

# Tracing configuration
# tracing:
#   enabled: true
#   exporter: file      # none, file, stdout, otlp
#   file_path: ~/.config/glformats/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
