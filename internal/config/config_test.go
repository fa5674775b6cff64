package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glformats/internal/formats"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, DefaultRegistryPath, cfg.Registry.Path)
	require.Equal(t, 10*time.Minute, cfg.Registry.CacheTTL)
	require.Equal(t, "GL_", cfg.Output.Prefix)
	require.Equal(t, ",", cfg.Output.Separator)
	require.Empty(t, cfg.Output.Path, "default output is stdout")
	require.False(t, cfg.Strict)
	require.False(t, cfg.Tracing.Enabled)
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{name: "missing registry path", mutate: func(c *Config) { c.Registry.Path = "" }, errContains: "registry.path"},
		{name: "negative ttl", mutate: func(c *Config) { c.Registry.CacheTTL = -time.Second }, errContains: "cache_ttl"},
		{name: "negative debounce", mutate: func(c *Config) { c.Watch.Debounce = -time.Second }, errContains: "watch.debounce"},
		{name: "empty checklist entry", mutate: func(c *Config) { c.Checklist = []string{"GL_R8", ""} }, errContains: "checklist entry 1"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errContains: "log_level"},
		{name: "bad exporter", mutate: func(c *Config) { c.Tracing.Exporter = "zipkin" }, errContains: "tracing.exporter"},
		{name: "sample rate", mutate: func(c *Config) { c.Tracing.SampleRate = 1.5 }, errContains: "sample_rate"},
		{name: "otlp without endpoint", mutate: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "otlp"
			c.Tracing.OTLPEndpoint = ""
		}, errContains: "otlp_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestGetChecklist(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, formats.DefaultChecklist(), cfg.GetChecklist())

	cfg.Checklist = []string{"GL_R8"}
	got := cfg.GetChecklist()
	require.Equal(t, []string{"GL_R8"}, got)
	got[0] = "mutated"
	require.Equal(t, "GL_R8", cfg.Checklist[0])
}

func TestOutputConfig_RenderOptions(t *testing.T) {
	opts := OutputConfig{Prefix: "GL_", Indent: "    ", Separator: ","}.RenderOptions()
	require.Equal(t, "    R8 = 0x8229,", opts.Line("GL_R8", 0x8229))
}

func TestTracingConfig_TracingProviderConfig(t *testing.T) {
	cfg := TracingConfig{Enabled: true, Exporter: "stdout", SampleRate: 0.5}.TracingProviderConfig()
	require.True(t, cfg.Enabled)
	require.Equal(t, "stdout", cfg.Exporter)
	require.Equal(t, 0.5, cfg.SampleRate)
	require.Equal(t, "localhost:4317", cfg.OTLPEndpoint, "empty endpoint keeps the default")

	empty := TracingConfig{}.TracingProviderConfig()
	require.Equal(t, "file", empty.Exporter)
	require.Equal(t, 1.0, empty.SampleRate)
}

func TestDefaultConfigTemplate_ParsesAsYAML(t *testing.T) {
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(DefaultConfigTemplate()), &doc))

	registry, ok := doc["registry"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, DefaultRegistryPath, registry["path"])

	output, ok := doc["output"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "GL_", output["prefix"])
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".glformats", "config.yaml")

	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, DefaultConfigTemplate(), string(data))
}
