package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"phpswitcher/internal/discovery"
	"phpswitcher/internal/tui"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List cached PHP installations",
		Args:    cobra.NoArgs,
		RunE:    runList,
	}
}

type listEntry struct {
	Version string   `json:"version"`
	Primary string   `json:"primary"`
	Paths   []string `json:"paths"`
	Active  bool     `json:"active"`
	Default bool     `json:"default"`
}

type listOutput struct {
	LastScan       string      `json:"last_scan,omitempty"`
	DefaultVersion string      `json:"default_version,omitempty"`
	Installed      []listEntry `json:"installed"`
	Redirected     string      `json:"redirected,omitempty"`
	BinOnPath      bool        `json:"bin_on_path"`
	ConfigFile     string      `json:"config_file"`
	Scanned        bool        `json:"scanned"`
	Current        *binaryInfo `json:"current,omitempty"`
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	scanned := false
	if len(cfg.Versions) == 0 {
		s.logger.Info("cache empty; scanning before list")
		if cfg, err = runScanWithStatus(cmd, s, cfg); err != nil {
			return err
		}
		scanned = true
	}

	name := s.scanner.Name()
	active := s.activeTarget()
	current, currentErr := s.scanner.Current(cmd.Context())
	defaultVersion, _, _ := cfg.Resolve(cfg.Settings.DefaultVersion)

	out := listOutput{
		LastScan:       cfg.Settings.LastScan,
		DefaultVersion: cfg.Settings.DefaultVersion,
		Installed:      []listEntry{},
		Redirected:     active,
		BinOnPath:      s.layout.OnSearchPath(pathEnv()),
		ConfigFile:     s.layout.ConfigFile,
		Scanned:        scanned,
	}
	if currentErr == nil {
		out.Current = &binaryInfo{Path: current.Path, Version: current.Version.String(), Banner: current.Banner}
	} else {
		out.Current = &binaryInfo{Error: currentErr.Error()}
	}
	for _, inst := range cfg.Installations() {
		entry := listEntry{
			Version: inst.Version.String(),
			Primary: discovery.PrimaryPath(inst, name),
			Paths:   inst.Paths,
			Active:  isActive(inst, current, currentErr, active),
			Default: cfg.Settings.DefaultVersion != "" && inst.Version == defaultVersion,
		}
		out.Installed = append(out.Installed, entry)
	}

	if outputJSON {
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	if out.Current.Error == "" {
		fmt.Fprintf(w, "Current PHP version: %s (%s)\n", s.styler.Render(tui.ActiveStyle, out.Current.Version), out.Current.Path)
	} else {
		fmt.Fprintf(w, "Current PHP version: %s\n", s.styler.Render(tui.WarnStyle, out.Current.Error))
	}
	if scanned {
		fmt.Fprintf(w, "Cache was empty; scanned the system and saved %s\n", s.layout.ConfigFile)
	}
	if len(out.Installed) == 0 {
		fmt.Fprintln(w, "No PHP installations found.")
		fmt.Fprintln(w, "Searched: "+strings.Join(searchedDirs(s), ", "))
		return nil
	}
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(out.Installed))
	for _, e := range out.Installed {
		marker := " "
		if e.Active {
			marker = "*"
		}
		version := e.Version
		if e.Default {
			version += " (default)"
		}
		extra := ""
		if n := len(e.Paths) - 1; n > 0 {
			extra = fmt.Sprintf("+%d related", n)
		}
		if e.Active {
			version = s.styler.Render(tui.ActiveStyle, version)
		}
		rows = append(rows, []string{marker, version, e.Primary, s.styler.Render(tui.DimStyle, extra)})
	}
	fmt.Fprint(w, tui.Table(s.styler, []string{" ", "VERSION", "PRIMARY", "BINARIES"}, rows))
	if out.LastScan != "" {
		fmt.Fprintf(w, "\nLast scan: %s\n", out.LastScan)
	}
	if !out.BinOnPath {
		fmt.Fprintln(w, s.styler.Render(tui.WarnStyle, fmt.Sprintf("\n%s is not on your PATH; run: eval \"$(php-switcher env)\"", s.layout.BinDir)))
	}
	return nil
}

// isActive marks the installation whose version the php on PATH reports.
// Without a php on PATH it falls back to the redirection target.
func isActive(inst discovery.Installation, current discovery.Found, currentErr error, redirected string) bool {
	if currentErr == nil {
		return inst.Version == current.Version
	}
	return redirected != "" && slices.Contains(inst.Paths, redirected)
}
