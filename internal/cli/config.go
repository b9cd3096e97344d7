package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"phpswitcher/internal/config"
)

var showFormat string

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the cached configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the cached configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	cmd.Flags().StringVar(&showFormat, "format", "", "Output encoding: toml or yaml (default: that of the cache file)")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache file location",
		Args:  cobra.NoArgs,
		RunE:  runConfigPath,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	if outputJSON {
		return writeJSON(cmd, cfg)
	}

	format := config.FormatFor(s.layout.ConfigFile)
	switch showFormat {
	case "":
	case string(config.FormatTOML), string(config.FormatYAML):
		format = config.Format(showFormat)
	default:
		return fmt.Errorf("unknown format %q (want toml or yaml)", showFormat)
	}

	data, err := cfg.Marshal(format)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if outputJSON {
		return writeJSON(cmd, map[string]string{"config_file": s.layout.ConfigFile, "home": s.layout.Root})
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.layout.ConfigFile)
	return nil
}
