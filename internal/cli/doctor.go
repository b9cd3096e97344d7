package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"phpswitcher/internal/config"
	"phpswitcher/internal/paths"
	"phpswitcher/internal/tui"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the switcher setup",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	var checks []healthCheck

	cfg, cfgErr := s.store.Load()
	checks = append(checks, checkCache(cfg, cfgErr))
	checks = append(checks, checkPath(s.layout, pathEnv()))
	checks = append(checks, checkRedirect(s))
	if cfgErr == nil {
		checks = append(checks, checkTools(cfg))
	}

	return writeDoctorResult(cmd, s, checks)
}

func checkCache(cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Cache", Status: "error", Summary: cfgErr.Error()}
	}
	if len(cfg.Versions) == 0 {
		return healthCheck{Name: "Cache", Status: "warning", Summary: "no installations cached; run php-switcher scan"}
	}

	var warnings, errs int
	for _, v := range cfg.Validate() {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errs++
		}
	}
	summary := fmt.Sprintf("%d versions cached", len(cfg.Versions))
	if cfg.Settings.LastScan != "" {
		summary += ", last scan " + cfg.Settings.LastScan
	}
	if errs > 0 {
		return healthCheck{Name: "Cache", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errs)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Cache", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Cache", Status: "ok", Summary: summary}
}

func checkPath(layout paths.Layout, pathList string) healthCheck {
	entries := filepath.SplitList(pathList)
	for i, entry := range entries {
		if filepath.Clean(entry) != filepath.Clean(layout.BinDir) {
			continue
		}
		if i == 0 {
			return healthCheck{Name: "PATH", Status: "ok", Summary: layout.BinDir + " is first"}
		}
		return healthCheck{Name: "PATH", Status: "warning", Summary: fmt.Sprintf("%s is entry %d; earlier entries may shadow it", layout.BinDir, i+1)}
	}
	return healthCheck{Name: "PATH", Status: "error", Summary: layout.BinDir + " is not on PATH"}
}

func checkRedirect(s *session) healthCheck {
	entry := s.layout.PrimaryBinary(s.scanner.Name())
	target, err := os.Readlink(entry)
	if err != nil {
		return healthCheck{Name: "Redirect", Status: "warning", Summary: "no version selected; run php-switcher use <version>"}
	}
	if _, err := os.Stat(target); err != nil {
		return healthCheck{Name: "Redirect", Status: "error", Summary: fmt.Sprintf("%s points at missing %s", filepath.Base(entry), target)}
	}
	return healthCheck{Name: "Redirect", Status: "ok", Summary: target}
}

func checkTools(cfg config.Config) healthCheck {
	if !cfg.Tools.ScanForTools {
		return healthCheck{Name: "Tools", Status: "ok", Summary: "shims disabled"}
	}
	var missing int
	for _, t := range cfg.Tools.Managed {
		if _, err := os.Stat(t.OriginalPath); err != nil {
			missing++
		}
	}
	if missing > 0 {
		return healthCheck{Name: "Tools", Status: "warning", Summary: fmt.Sprintf("%d of %d tracked tools missing; run php-switcher tools scan", missing, len(cfg.Tools.Managed))}
	}
	return healthCheck{Name: "Tools", Status: "ok", Summary: fmt.Sprintf("%d tools tracked", len(cfg.Tools.Managed))}
}

func writeDoctorResult(cmd *cobra.Command, s *session, checks []healthCheck) error {
	if outputJSON {
		return writeJSON(cmd, checks)
	}

	st := s.styler
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, st.Render(tui.HeaderStyle, "SWITCHER HEALTH:")+" "+s.layout.Root)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = st.Render(tui.SuccessStyle, "OK")
		case "warning":
			statusStr = st.Render(tui.WarnStyle, "WARN")
		case "error":
			statusStr = st.Render(tui.ErrorStyle, "ERROR")
		}
		fmt.Fprintf(out, "  %-10s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}
	return nil
}
