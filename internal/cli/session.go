package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"phpswitcher/internal/config"
	"phpswitcher/internal/discovery"
	"phpswitcher/internal/logx"
	"phpswitcher/internal/paths"
	"phpswitcher/internal/platform"
	"phpswitcher/internal/switcher"
	"phpswitcher/internal/tui"
)

// Seams replaced by tests.
var (
	newProbeRunner = func() discovery.Runner { return discovery.CmdRunner{} }
	scanRoots      = func(p platform.Profile) discovery.Roots { return p.Roots() }
	lookPath       = exec.LookPath
	userHome       = os.UserHomeDir
	pathEnv        = func() string { return os.Getenv("PATH") }
)

// session bundles everything a command needs for one invocation.
type session struct {
	layout  paths.Layout
	profile platform.Profile
	store   config.FileStore
	scanner *discovery.Scanner
	logger  *log.Logger
	closer  io.Closer
	styler  tui.Styler
}

func openSession(cmd *cobra.Command) (*session, error) {
	layout, err := paths.Resolve(homeDir, configPath)
	if err != nil {
		return nil, err
	}
	if err := layout.EnsureDirs(); err != nil {
		return nil, err
	}

	logger, closer, err := logx.New(layout, verbose, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	home, err := userHome()
	if err != nil {
		home = ""
	}
	profile := platform.Detect(home)

	return &session{
		layout:  layout,
		profile: profile,
		store:   config.FileStore{Path: layout.ConfigFile},
		scanner: &discovery.Scanner{Runner: newProbeRunner(), LookPath: lookPath, Logger: logger},
		logger:  logger,
		closer:  closer,
		styler:  tui.Styler{Color: tui.DetectMode(cmd.OutOrStdout(), outputJSON) == tui.ModeStyled},
	}, nil
}

func (s *session) Close() {
	if s.closer != nil {
		_ = s.closer.Close()
	}
}

func (s *session) engine() *switcher.Engine {
	roots := scanRoots(s.profile)
	return &switcher.Engine{
		Layout:  s.layout,
		Profile: s.profile,
		Scanner: s.scanner,
		Store:   s.store,
		Logger:  s.logger,
		Roots:   &roots,
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func printHints(w io.Writer, nf *switcher.NotFoundError) {
	fmt.Fprintf(w, "\nPHP %s is not installed. Installation suggestions:\n", nf.Pattern)
	for _, h := range nf.Hints {
		fmt.Fprintln(w, "  "+h)
	}
}

// activeTarget returns the binary the redirection entry points at, if any.
func (s *session) activeTarget() string {
	target, err := os.Readlink(s.layout.PrimaryBinary(s.scanner.Name()))
	if err != nil {
		return ""
	}
	return target
}
