package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"phpswitcher/internal/discovery"
	"phpswitcher/internal/paths"
	"phpswitcher/internal/tui"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [version]",
		Short: "Show the active PHP, or details of a cached version",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInfo,
	}
}

type binaryInfo struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	Banner  string `json:"banner,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infoOutput struct {
	Platform    string       `json:"platform"`
	Home        string       `json:"home"`
	BinDir      string       `json:"bin_dir"`
	BinOnPath   bool         `json:"bin_on_path"`
	ConfigFile  string       `json:"config_file"`
	Redirected  string       `json:"redirected,omitempty"`
	Current     *binaryInfo  `json:"current,omitempty"`
	CommonPaths []string     `json:"common_paths,omitempty"`
	Pattern     string       `json:"pattern,omitempty"`
	Version     string       `json:"version,omitempty"`
	Binaries    []binaryInfo `json:"binaries,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	out := infoOutput{
		Platform:   s.profile.Name(),
		Home:       s.layout.Root,
		BinDir:     s.layout.BinDir,
		BinOnPath:  s.layout.OnSearchPath(pathEnv()),
		ConfigFile: s.layout.ConfigFile,
		Redirected: s.activeTarget(),
	}

	if len(args) == 1 {
		cfg, err := s.store.Load()
		if err != nil {
			return err
		}
		v, binaries, ok := cfg.Resolve(args[0])
		if !ok {
			return fmt.Errorf("PHP %s is not cached; run: php-switcher scan", args[0])
		}
		out.Pattern = args[0]
		out.Version = v.String()
		for _, p := range binaries {
			out.Binaries = append(out.Binaries, describe(cmd, s.scanner, p))
		}
	} else {
		if found, err := s.scanner.Current(cmd.Context()); err == nil {
			out.Current = &binaryInfo{Path: found.Path, Version: found.Version.String(), Banner: found.Banner}
		} else {
			out.Current = &binaryInfo{Error: err.Error()}
		}
		for _, p := range s.profile.CommonPaths() {
			if ok, _ := paths.FileExists(p); ok {
				out.CommonPaths = append(out.CommonPaths, p)
			}
		}
	}

	if outputJSON {
		return writeJSON(cmd, out)
	}

	w := cmd.OutOrStdout()
	st := s.styler
	fmt.Fprintf(w, "%s %s\n", st.Render(tui.HeaderStyle, "Platform:"), out.Platform)
	fmt.Fprintf(w, "%s %s\n", st.Render(tui.HeaderStyle, "Home:"), out.Home)
	fmt.Fprintf(w, "%s %s\n", st.Render(tui.HeaderStyle, "Cache:"), out.ConfigFile)
	onPath := st.Render(tui.SuccessStyle, "on PATH")
	if !out.BinOnPath {
		onPath = st.Render(tui.WarnStyle, "not on PATH")
	}
	fmt.Fprintf(w, "%s %s (%s)\n", st.Render(tui.HeaderStyle, "Bin:"), out.BinDir, onPath)
	fmt.Fprintf(w, "%s %s\n", st.Render(tui.HeaderStyle, "Redirected to:"), tui.NonEmptyOrDash(out.Redirected))

	if out.Current != nil {
		if out.Current.Error != "" {
			fmt.Fprintf(w, "%s %s\n", st.Render(tui.HeaderStyle, "Current PHP:"), st.Render(tui.WarnStyle, out.Current.Error))
		} else {
			fmt.Fprintf(w, "%s %s (%s)\n", st.Render(tui.HeaderStyle, "Current PHP:"), out.Current.Version, out.Current.Path)
			fmt.Fprintf(w, "  %s\n", st.Render(tui.DimStyle, out.Current.Banner))
		}
		if len(out.CommonPaths) > 0 {
			fmt.Fprintf(w, "%s\n", st.Render(tui.HeaderStyle, "System binaries:"))
			for _, p := range out.CommonPaths {
				fmt.Fprintf(w, "  %s\n", p)
			}
		}
		return nil
	}

	fmt.Fprintf(w, "\nPHP %s\n", st.Render(tui.ActiveStyle, out.Version))
	for _, b := range out.Binaries {
		if b.Error != "" {
			fmt.Fprintf(w, "  %s  %s\n", b.Path, st.Render(tui.ErrorStyle, b.Error))
			continue
		}
		fmt.Fprintf(w, "  %s  %s\n", b.Path, st.Render(tui.DimStyle, b.Banner))
	}
	return nil
}

func describe(cmd *cobra.Command, scanner *discovery.Scanner, path string) binaryInfo {
	found, err := scanner.Describe(cmd.Context(), path)
	if err != nil {
		return binaryInfo{Path: path, Error: err.Error()}
	}
	return binaryInfo{Path: path, Version: found.Version.String(), Banner: found.Banner}
}
