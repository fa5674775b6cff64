package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/glformats/internal/config"
	"github.com/zjrosen/glformats/internal/formats"
	"github.com/zjrosen/glformats/internal/generate"
	"github.com/zjrosen/glformats/internal/log"
	"github.com/zjrosen/glformats/internal/rules"
	"github.com/zjrosen/glformats/internal/tracing"
)

const localConfigPath = ".glformats/config.yaml"

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
)

var (
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#73F59F"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8787"))
)

var rootCmd = &cobra.Command{
	Use:   "glformats",
	Short: "Generate the internal format table from the GL registry",
	Long: `Read the OpenGL XML registry and emit one "NAME = 0xVALUE," line per
internal format, in the order the classification passes accept them.

Output goes to stdout unless output.path is configured. Formats from the
checklist that were not found are reported on stderr.`,
	Version:       version,
	SilenceUsage:  true,
	RunE:          runGenerate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .glformats/config.yaml or ~/.config/glformats/config.yaml)")
	rootCmd.PersistentFlags().StringP("registry", "r", "", "path to the registry XML document")
	rootCmd.PersistentFlags().StringP("output", "o", "", "write the generated lines to this file")
	rootCmd.PersistentFlags().String("rules", "", "YAML rule file replacing the built-in passes")
	rootCmd.PersistentFlags().Bool("strict", false, "exit non-zero when a checklist format is missing")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "enable debug logging")

	_ = viper.BindPFlag("registry.path", rootCmd.PersistentFlags().Lookup("registry"))
	_ = viper.BindPFlag("output.path", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("rules.file", rootCmd.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("strict", rootCmd.PersistentFlags().Lookup("strict"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	// GLFORMATS_DEBUG, GLFORMATS_REGISTRY_PATH, ...
	viper.SetEnvPrefix("GLFORMATS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	defaults := config.Defaults()
	viper.SetDefault("debug", defaults.Debug)
	viper.SetDefault("strict", defaults.Strict)
	viper.SetDefault("registry.path", defaults.Registry.Path)
	viper.SetDefault("registry.cache_ttl", defaults.Registry.CacheTTL)
	viper.SetDefault("output.prefix", defaults.Output.Prefix)
	viper.SetDefault("output.indent", defaults.Output.Indent)
	viper.SetDefault("output.separator", defaults.Output.Separator)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("watch.debounce", defaults.Watch.Debounce)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .glformats/config.yaml (current directory)
		// 2. ~/.config/glformats/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "glformats"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .glformats/config.yaml
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if writeErr := config.WriteDefaultConfig(localConfigPath); writeErr == nil {
				viper.SetConfigFile(localConfigPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// session holds what every subcommand needs for one invocation.
type session struct {
	cfg      config.Config
	passes   []formats.Pass
	gen      *generate.Generator
	cache    generate.DocumentCache
	provider *tracing.Provider
	closeLog func()
}

func newSession(c config.Config, stderr io.Writer) (*session, error) {
	if err := config.Validate(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &session{cfg: c, closeLog: func() {}}
	if err := s.initLogging(stderr); err != nil {
		return nil, err
	}

	if err := s.loadPasses(); err != nil {
		s.close()
		return nil, err
	}

	tracingCfg := c.Tracing.TracingProviderConfig()
	if tracingCfg.Enabled && tracingCfg.Exporter == "file" && tracingCfg.FilePath == "" {
		tracingCfg.FilePath = config.DefaultTracesFilePath()
	}
	provider, err := tracing.NewProvider(tracingCfg)
	if err != nil {
		s.close()
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}
	s.provider = provider
	if provider.Enabled() {
		log.Info(log.CatTrace, "tracing enabled", "exporter", tracingCfg.Exporter)
	}

	s.cache = generate.NewDocumentCache(c.Registry.CacheTTL)
	s.buildGenerator()
	return s, nil
}

// loadPasses reads the rule file, or selects the built-in passes when none is configured.
func (s *session) loadPasses() error {
	if s.cfg.Rules.File == "" {
		s.passes = formats.DefaultPasses()
		return nil
	}
	passes, err := rules.LoadFile(s.cfg.Rules.File)
	if err != nil {
		return err
	}
	s.passes = passes
	log.Info(log.CatConfig, "rule file loaded", "path", s.cfg.Rules.File, "passes", len(passes))
	return nil
}

func (s *session) buildGenerator() {
	s.gen = generate.New(generate.Options{
		RegistryPath: s.cfg.Registry.Path,
		Passes:       s.passes,
		Checklist:    s.cfg.GetChecklist(),
		Render:       s.cfg.Output.RenderOptions(),
		Cache:        s.cache,
		CacheTTL:     s.cfg.Registry.CacheTTL,
		Tracer:       s.provider.Tracer(),
	})
}

// reloadRules rebuilds the generator from the rule file. The parsed registry
// cache is kept. On error the previous passes stay active.
func (s *session) reloadRules() error {
	if s.cfg.Rules.File == "" {
		return nil
	}
	previous := s.passes
	if err := s.loadPasses(); err != nil {
		s.passes = previous
		return err
	}
	s.buildGenerator()
	return nil
}

func (s *session) initLogging(stderr io.Writer) error {
	if !s.cfg.Debug {
		log.Reset()
		return nil
	}
	if s.cfg.LogFile != "" {
		cleanup, err := log.Init(s.cfg.LogFile)
		if err != nil {
			return err
		}
		s.closeLog = cleanup
	} else {
		log.InitWriter(stderr)
	}
	log.SetMinLevel(log.ParseLevel(s.cfg.LogLevel))
	return nil
}

func (s *session) close() {
	if s.provider != nil {
		if err := s.provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "tracing shutdown failed", err)
		}
	}
	s.closeLog()
}

// emit runs one generation, writes the lines and prints the diagnostics.
func (s *session) emit(ctx context.Context, stdout, stderr io.Writer) (*generate.Report, error) {
	report, err := s.gen.Run(ctx)
	if err != nil {
		return nil, err
	}

	if s.cfg.Output.Path == "" {
		if _, err := io.WriteString(stdout, report.Output); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}
	} else if err := generate.WriteOutput(s.cfg.Output.Path, report.Output); err != nil {
		return nil, err
	}

	printDiagnostics(stderr, report)
	return report, nil
}

func printDiagnostics(w io.Writer, report *generate.Report) {
	lines := report.Diagnostics()
	for i, line := range lines {
		style := missingStyle
		if i == len(lines)-1 {
			style = doneStyle
		}
		_, _ = fmt.Fprintln(w, style.Render(line))
	}
}

func printDrift(w io.Writer, path string, changes []generate.LineChange) {
	_, _ = fmt.Fprintf(w, "%s is out of date:\n", path)
	for _, c := range changes {
		line := c.String()
		switch {
		case strings.HasPrefix(line, "+"):
			line = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			line = removedStyle.Render(line)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	report, err := s.emit(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if s.cfg.Strict {
		return report.Strict()
	}
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
