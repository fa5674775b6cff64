package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/glformats/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the active classification passes as YAML",
	Long: `Print the passes that generation would apply, in order.

Without rules.file this is the built-in list, which makes a convenient
starting point for a custom rule file:

  glformats rules > .glformats/rules.yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(cfg, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer s.close()

		data, err := rules.Marshal(s.passes)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}
