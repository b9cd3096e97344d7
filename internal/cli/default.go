package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var defaultUnset bool

func newDefaultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "default [version]",
		Short: "Show or set the version used by a bare \"use\"",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDefault,
	}
	cmd.Flags().BoolVar(&defaultUnset, "unset", false, "Clear the default version")
	return cmd
}

type defaultOutput struct {
	Default  string `json:"default"`
	Resolves string `json:"resolves,omitempty"`
}

func runDefault(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}

	switch {
	case defaultUnset:
		cfg.Settings.DefaultVersion = ""
		if err := s.store.Save(cfg); err != nil {
			return err
		}
	case len(args) == 1:
		if _, _, ok := cfg.Resolve(args[0]); !ok {
			return fmt.Errorf("PHP %s is not cached; run: php-switcher scan", args[0])
		}
		cfg.Settings.DefaultVersion = args[0]
		if err := s.store.Save(cfg); err != nil {
			return err
		}
		s.logger.Info("default version set", "pattern", args[0])
	}

	out := defaultOutput{Default: cfg.Settings.DefaultVersion}
	if v, _, ok := cfg.Resolve(out.Default); ok {
		out.Resolves = v.String()
	}
	if outputJSON {
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if out.Default == "" {
		fmt.Fprintln(w, "No default version set.")
		return nil
	}
	if out.Resolves == "" {
		fmt.Fprintf(w, "Default: %s (not cached)\n", out.Default)
		return nil
	}
	fmt.Fprintf(w, "Default: %s (resolves to %s)\n", out.Default, out.Resolves)
	return nil
}
