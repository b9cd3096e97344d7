package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"phpswitcher/internal/switcher"
)

var (
	homeDir    string
	configPath string
	outputJSON bool
	verbose    bool
)

// Execute runs the root cobra command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var nf *switcher.NotFoundError
		if errors.As(err, &nf) {
			printHints(os.Stderr, nf)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "php-switcher [version]",
		Short: "Switch between installed PHP versions",
		Long: "php-switcher discovers installed PHP binaries and points ~/.php-switcher/bin\n" +
			"at the version you choose. Put that directory first on your PATH.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", "", "Switcher home directory (default $PHP_SWITCHER_HOME or ~/.php-switcher)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the cache file (.toml, .yaml or .yml)")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Mirror debug logs to stderr")

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newUseCmd())
	cmd.AddCommand(newPickCmd())
	cmd.AddCommand(newScanCmd())
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newDefaultCmd())
	cmd.AddCommand(newEnvCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// runRoot treats a bare version argument as "use"; with no argument it lists
// installations.
func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return runUse(cmd, args)
	}
	return runList(cmd, nil)
}
