package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"phpswitcher/internal/config"
	"phpswitcher/internal/discovery"
	"phpswitcher/internal/tui"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the system for PHP installations and refresh the cache",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
}

type scanOutput struct {
	LastScan      string        `json:"last_scan"`
	ConfigFile    string        `json:"config_file"`
	Installations []scanVersion `json:"installations"`
}

type scanVersion struct {
	Version string   `json:"version"`
	Paths   []string `json:"paths"`
}

func runScan(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	cfg, err = runScanWithStatus(cmd, s, cfg)
	if err != nil {
		return err
	}

	installs := cfg.Installations()
	if outputJSON {
		out := scanOutput{LastScan: cfg.Settings.LastScan, ConfigFile: s.layout.ConfigFile, Installations: []scanVersion{}}
		for _, inst := range installs {
			out.Installations = append(out.Installations, scanVersion{Version: inst.Version.String(), Paths: inst.Paths})
		}
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if len(installs) == 0 {
		fmt.Fprintln(w, "No PHP installations found.")
		fmt.Fprintln(w, "Searched: "+strings.Join(searchedDirs(s), ", "))
		return nil
	}
	fmt.Fprintf(w, "Found %d PHP installation(s):\n", len(installs))
	rows := make([][]string, 0, len(installs))
	for _, inst := range installs {
		rows = append(rows, []string{inst.Version.String(), discovery.PrimaryPath(inst, s.scanner.Name()), fmt.Sprint(len(inst.Paths))})
	}
	fmt.Fprint(w, tui.Table(s.styler, []string{"VERSION", "PRIMARY", "BINARIES"}, rows))
	fmt.Fprintf(w, "\nCache saved to %s\n", s.layout.ConfigFile)
	return nil
}

// runScanWithStatus rescans while showing a spinner on terminals.
func runScanWithStatus(cmd *cobra.Command, s *session, cfg config.Config) (config.Config, error) {
	var status *tui.StatusLine
	if !outputJSON && tui.IsTerminal(cmd.OutOrStdout()) {
		status = tui.NewStatusLine(cmd.OutOrStdout(), "Scanning for PHP installations")
	}
	cfg, err := s.engine().Rescan(cmd.Context(), cfg)
	if status != nil {
		status.Stop()
	}
	return cfg, err
}

func searchedDirs(s *session) []string {
	roots := scanRoots(s.profile)
	var dirs []string
	dirs = append(dirs, roots.BinDirs...)
	dirs = append(dirs, roots.CellarRoots...)
	dirs = append(dirs, roots.VersionRoots...)
	return dirs
}
