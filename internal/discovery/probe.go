package discovery

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"phpswitcher/internal/version"
)

// ProbeError reports a binary that could not be executed or whose output
// carried no version banner.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// ProbeBinary runs the binary with the version flag and parses its stdout.
// The banner is the only trusted source of a version; file names are not.
func (s *Scanner) ProbeBinary(ctx context.Context, path string) (version.Version, error) {
	v, _, err := s.probe(ctx, path)
	return v, err
}

// Describe probes path and also returns the first line of its banner.
func (s *Scanner) Describe(ctx context.Context, path string) (Found, error) {
	v, banner, err := s.probe(ctx, path)
	if err != nil {
		return Found{}, err
	}
	return Found{Version: v, Path: path, Banner: banner}, nil
}

func (s *Scanner) probe(ctx context.Context, path string) (version.Version, string, error) {
	res, err := s.runner().Run(ctx, path, []string{s.versionFlag()}, RunOptions{Env: []string{"LC_ALL=C"}})
	if err != nil {
		return version.Version{}, "", &ProbeError{Path: path, Err: err}
	}
	if res.ExitCode != 0 {
		return version.Version{}, "", &ProbeError{Path: path, Err: fmt.Errorf("exit status %d", res.ExitCode)}
	}

	out := string(res.Stdout)
	v, err := version.ParseNamed(s.banner(), out)
	if err != nil {
		return version.Version{}, "", &ProbeError{Path: path, Err: err}
	}
	return v, firstLine(out), nil
}

// Current resolves the binary name on PATH and probes it.
func (s *Scanner) Current(ctx context.Context) (Found, error) {
	path, err := s.lookPath(s.binaryName())
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Found{}, fmt.Errorf("%s not found in PATH", s.binaryName())
		}
		return Found{}, err
	}
	return s.Describe(ctx, path)
}

func (s *Scanner) lookPath(name string) (string, error) {
	if s.LookPath != nil {
		return s.LookPath(name)
	}
	return exec.LookPath(name)
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
