package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"phpswitcher/internal/config"
	"phpswitcher/internal/shim"
	"phpswitcher/internal/tui"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage shims for PHP tools such as composer and phpunit",
	}

	cmd.AddCommand(newToolsListCmd())
	cmd.AddCommand(newToolsScanCmd())
	cmd.AddCommand(newToolsToggleCmd("enable", true))
	cmd.AddCommand(newToolsToggleCmd("disable", false))
	return cmd
}

func newToolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked tools and whether they are shimmed",
		Args:  cobra.NoArgs,
		RunE:  runToolsList,
	}
}

func newToolsScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Find PHP tools on PATH and record their interpreter lines",
		Args:  cobra.NoArgs,
		RunE:  runToolsScan,
	}
}

func newToolsToggleCmd(name string, enable bool) *cobra.Command {
	short := "Disable shims for PHP tools"
	if enable {
		short = "Enable shims for PHP tools"
	}
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runToolsToggle(cmd, enable)
		},
	}
}

type toolStatus struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Shebang   string `json:"shebang"`
	NeedsShim bool   `json:"needs_shim"`
	Shimmed   bool   `json:"shimmed"`
}

type toolsOutput struct {
	Enabled bool         `json:"enabled"`
	Tools   []toolStatus `json:"tools"`
}

func toolStatuses(cfg config.Config) toolsOutput {
	out := toolsOutput{Enabled: cfg.Tools.ScanForTools, Tools: []toolStatus{}}
	for _, t := range cfg.Tools.Managed {
		out.Tools = append(out.Tools, toolStatus{
			Name:      t.Name,
			Path:      t.OriginalPath,
			Shebang:   t.Shebang,
			NeedsShim: shim.NeedsShim(t.Shebang),
			Shimmed:   t.ShimCreated,
		})
	}
	return out
}

func runToolsList(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	return printTools(cmd, s, toolStatuses(cfg))
}

func runToolsScan(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	if !cfg.Tools.ScanForTools {
		return errors.New("tool scanning is disabled; run: php-switcher tools enable")
	}

	search := shim.SearchPaths(cfg.Tools.CustomSearchPaths, pathEnv(), s.layout.BinDir)
	found := shim.Scan(shim.Names(cfg.Tools.CustomToolNames), search)

	previous := map[string]bool{}
	for _, t := range cfg.Tools.Managed {
		previous[t.Name] = t.ShimCreated
	}
	managed := make([]config.ToolEntry, 0, len(found))
	for _, t := range found {
		managed = append(managed, config.ToolEntry{
			Name:         t.Name,
			OriginalPath: t.OriginalPath,
			Shebang:      t.Shebang,
			ShimCreated:  previous[t.Name] && shim.NeedsShim(t.Shebang),
		})
	}
	cfg.Tools.Managed = managed
	if err := s.store.Save(cfg); err != nil {
		return err
	}
	s.logger.Info("tool scan finished", "tools", len(managed))

	out := toolStatuses(cfg)
	if err := printTools(cmd, s, out); err != nil || outputJSON {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s.styler.Render(tui.DimStyle, "Shims are written on the next switch."))
	return nil
}

func runToolsToggle(cmd *cobra.Command, enable bool) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg, err := s.store.Load()
	if err != nil {
		return err
	}
	cfg.Tools.ScanForTools = enable
	if err := s.store.Save(cfg); err != nil {
		return err
	}

	if outputJSON {
		return writeJSON(cmd, map[string]bool{"enabled": enable})
	}
	if enable {
		fmt.Fprintln(cmd.OutOrStdout(), "Tool shims enabled. Run: php-switcher tools scan")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Tool shims disabled.")
	}
	return nil
}

func printTools(cmd *cobra.Command, s *session, out toolsOutput) error {
	if outputJSON {
		return writeJSON(cmd, out)
	}
	w := cmd.OutOrStdout()
	if len(out.Tools) == 0 {
		fmt.Fprintln(w, "(no tracked tools)")
		return nil
	}
	rows := make([][]string, 0, len(out.Tools))
	for _, t := range out.Tools {
		state := "follows PATH"
		switch {
		case t.Shimmed:
			state = s.styler.Render(tui.SuccessStyle, "shimmed")
		case t.NeedsShim:
			state = s.styler.Render(tui.WarnStyle, "needs shim")
		}
		rows = append(rows, []string{t.Name, t.Shebang, state, t.Path})
	}
	fmt.Fprint(w, tui.Table(s.styler, []string{"TOOL", "SHEBANG", "STATE", "PATH"}, rows))
	return nil
}
