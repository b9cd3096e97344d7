package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"phpswitcher/internal/discovery"
	"phpswitcher/internal/switcher"
	"phpswitcher/internal/tui"
)

// Seams for tests: the picker needs a real terminal.
var (
	pickerIn  io.Reader = os.Stdin
	canPrompt           = tui.CanPrompt
	runPicker           = tui.Pick
)

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use [version]",
		Short: "Switch to a PHP version (8, 8.2 or 8.2.12)",
		Long: "Switch the redirection directory to the newest cached installation\n" +
			"matching the version. Unknown versions trigger a system scan. Without an\n" +
			"argument the default version is used, or a picker on a terminal.",
		Args: cobra.MaximumNArgs(1),
		RunE: runUse,
	}
}

func newPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Choose a PHP version interactively",
		Args:  cobra.NoArgs,
		RunE:  runPick,
	}
}

type useOutput struct {
	Version string `json:"version"`
	switcher.Result
	VerifyError string `json:"verify_error,omitempty"`
	BinDir      string `json:"bin_dir"`
	BinOnPath   bool   `json:"bin_on_path"`
}

func runUse(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	pattern := ""
	if len(args) == 1 {
		pattern = args[0]
	}
	if pattern == "" {
		cfg, err := s.store.Load()
		if err != nil {
			return err
		}
		pattern = cfg.Settings.DefaultVersion
	}
	if pattern == "" {
		if outputJSON || !canPrompt(pickerIn, cmd.OutOrStdout()) {
			return errors.New("no version given and no default set; run: php-switcher default <version>")
		}
		pattern, err = pickVersion(cmd, s)
		if err != nil {
			return err
		}
	}
	return switchTo(cmd, s, pattern)
}

func runPick(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if !canPrompt(pickerIn, cmd.OutOrStdout()) {
		return errors.New("pick needs an interactive terminal; use: php-switcher use <version>")
	}
	pattern, err := pickVersion(cmd, s)
	if err != nil {
		return err
	}
	return switchTo(cmd, s, pattern)
}

// pickVersion lets the user choose among cached installations, scanning
// first when the cache is empty.
func pickVersion(cmd *cobra.Command, s *session) (string, error) {
	cfg, err := s.store.Load()
	if err != nil {
		return "", err
	}
	if len(cfg.Versions) == 0 {
		if cfg, err = runScanWithStatus(cmd, s, cfg); err != nil {
			return "", err
		}
	}
	installs := cfg.Installations()
	if len(installs) == 0 {
		return "", errors.New("no PHP installations found; run: php-switcher scan")
	}

	active := s.activeTarget()
	choices := make([]tui.Choice, 0, len(installs))
	for _, inst := range installs {
		choices = append(choices, tui.Choice{
			Label:  inst.Version.String(),
			Detail: discovery.PrimaryPath(inst, s.scanner.Name()),
			Active: active != "" && slices.Contains(inst.Paths, active),
		})
	}
	idx, err := runPicker(pickerIn, cmd.OutOrStdout(), "Select a PHP version", choices, s.styler.Color)
	if err != nil {
		return "", err
	}
	return installs[idx].Version.String(), nil
}

func switchTo(cmd *cobra.Command, s *session, pattern string) error {
	w := cmd.OutOrStdout()
	engine := s.engine()

	onState, stop := stateReporter(cmd.ErrOrStderr(), w, s.styler, !outputJSON && tui.IsTerminal(w), verbose, pattern)
	engine.OnState = onState
	res, err := engine.Switch(cmd.Context(), pattern)
	stop()
	if err != nil {
		return err
	}

	out := useOutput{
		Version:   res.Version.String(),
		Result:    res,
		BinDir:    s.layout.BinDir,
		BinOnPath: s.layout.OnSearchPath(pathEnv()),
	}
	if res.VerifyErr != nil {
		out.VerifyError = res.VerifyErr.Error()
	}
	if outputJSON {
		return writeJSON(cmd, out)
	}

	st := s.styler
	if res.Rescanned {
		fmt.Fprintln(w, st.Render(tui.DimStyle, "Cache refreshed from a system scan."))
	}
	fmt.Fprintf(w, "Switching to PHP %s\n", st.Render(tui.ActiveStyle, out.Version))
	for _, b := range res.Plan.Bindings {
		fmt.Fprintf(w, "  %s %s -> %s\n", st.Render(tui.SuccessStyle, "✓"), b.Name, st.Render(tui.DimStyle, b.Target))
	}
	for _, name := range res.Plan.Prune {
		fmt.Fprintf(w, "  %s %s removed\n", st.Render(tui.DimStyle, "-"), name)
	}
	for _, name := range res.Shims {
		fmt.Fprintf(w, "  %s %s uses the switched PHP\n", st.Render(tui.SuccessStyle, "✓"), name)
	}

	if res.VerifyErr != nil {
		fmt.Fprintln(w, st.Render(tui.WarnStyle, "Could not verify the switch: "+res.VerifyErr.Error()))
	} else {
		fmt.Fprintf(w, "Verified: %s\n", res.Verified)
	}

	cfg, err := s.store.Load()
	if err == nil && !cfg.Tools.ScanForTools {
		fmt.Fprintln(w, st.Render(tui.DimStyle, "Tip: run php-switcher tools enable && php-switcher tools scan to shim composer, phpunit and friends."))
	}
	if !out.BinOnPath {
		printPathInstructions(w, s, st)
	}
	return nil
}

func printPathInstructions(w io.Writer, s *session, st tui.Styler) {
	fmt.Fprintln(w, st.Render(tui.WarnStyle, "\nPut the switcher bin directory first on your PATH:"))
	fmt.Fprintf(w, "  export PATH=\"%s:$PATH\"\n", s.layout.BinDir)
	fmt.Fprintln(w, "Add that line to ~/.bashrc or ~/.zshrc, or run: eval \"$(php-switcher env)\"")
}

// stateReporter follows a switch: under verbose every state is echoed to errW,
// and on a terminal a status line covers the scan and the relinking after it.
// The returned stop func clears the status line.
func stateReporter(errW, w io.Writer, st tui.Styler, interactive, verbose bool, pattern string) (func(switcher.State), func()) {
	var status *tui.StatusLine
	stop := func() {
		if status != nil {
			status.Stop()
		}
	}
	onState := func(state switcher.State) {
		if verbose {
			fmt.Fprintf(errW, "state: %s\n", st.Render(tui.StateStyle(string(state)), string(state)))
		}
		if !interactive {
			return
		}
		switch state {
		case switcher.Scanning:
			status = tui.NewStatusLine(w, "PHP "+pattern+" not cached; scanning system")
		case switcher.Linking:
			if status != nil {
				status.Update("Linking PHP " + pattern)
			}
		case switcher.NotFoundSystem, switcher.Done, switcher.Failed:
			stop()
		}
	}
	return onState, stop
}
