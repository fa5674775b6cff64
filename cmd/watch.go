package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zjrosen/glformats/internal/log"
	"github.com/zjrosen/glformats/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the registry changes",
	Long: `Generate once, then regenerate each time the registry file (or the
configured rule file) is written.

Parsed registries are cached by size and modification time, so saving an
unchanged file does not reparse it. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	s, err := newSession(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(watcher.Config{
		Paths:       []string{cfg.Registry.Path, cfg.Rules.File},
		DebounceDur: cfg.Watch.Debounce,
	})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	return watchLoop(ctx, s, changes, cmd)
}

// watchLoop regenerates on every change signal until ctx is done. Generation
// errors are reported and the loop keeps running.
func watchLoop(ctx context.Context, s *session, changes <-chan struct{}, cmd *cobra.Command) error {
	report := func(err error) {
		log.ErrorErr(log.CatWatcher, "regeneration failed", err)
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), missingStyle.Render("error: "+err.Error()))
	}
	regenerate := func() {
		if _, err := s.emit(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr()); err != nil {
			report(err)
		}
	}

	regenerate()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			log.Info(log.CatWatcher, "inputs changed", "registry", s.cfg.Registry.Path, "rules", s.cfg.Rules.File)
			// A broken rule file keeps the previous passes; registry edits still apply.
			if err := s.reloadRules(); err != nil {
				report(err)
			}
			regenerate()
		}
	}
}
