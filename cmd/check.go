package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glformats/internal/generate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the generated file is up to date",
	Long: `Regenerate the format lines in memory and compare them with output.path.

Exits non-zero and prints the changed lines when the file is stale. Nothing
is written.

Examples:
  glformats check -o src/gl/internal_formats.inl`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if cfg.Output.Path == "" {
		return errors.New("check needs output.path (or --output) to compare against")
	}

	s, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	report, err := s.gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	changes, err := generate.Check(cfg.Output.Path, report.Output)
	if err != nil {
		if errors.Is(err, generate.ErrDrift) {
			printDrift(cmd.ErrOrStderr(), cfg.Output.Path, changes)
		}
		return err
	}
	if cfg.Strict {
		return report.Strict()
	}
	return nil
}
