// Package switcher resolves a version pattern to an installation and points
// the redirection directory at its binaries.
package switcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"phpswitcher/internal/config"
	"phpswitcher/internal/discovery"
	"phpswitcher/internal/paths"
	"phpswitcher/internal/platform"
	"phpswitcher/internal/shim"
	"phpswitcher/internal/version"
)

// State is a step of a switch.
type State string

const (
	Idle           State = "idle"
	Resolving      State = "resolving"
	Found          State = "found"
	NotFoundLocal  State = "not-found-local"
	Scanning       State = "scanning"
	NotFoundSystem State = "not-found-system"
	Linking        State = "linking"
	Verifying      State = "verifying"
	Done           State = "done"
	Failed         State = "failed"
)

// NotFoundError means no installation matches the pattern, even after a
// fresh scan. Hints tell the user how to install one.
type NotFoundError struct {
	Pattern string
	Hints   []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("version %s not found; install it and try again", e.Pattern)
}

// Result describes a finished switch.
type Result struct {
	Pattern   string          `json:"pattern"`
	Version   version.Version `json:"-"`
	Paths     []string        `json:"paths"`
	Plan      Plan            `json:"plan"`
	Rescanned bool            `json:"rescanned"`
	// Verified is the banner of the redirected binary. VerifyErr is set
	// instead when the probe failed; the switch still counts as done.
	Verified  string   `json:"verified,omitempty"`
	VerifyErr error    `json:"-"`
	Shims     []string `json:"shims,omitempty"`
	Trace     []State  `json:"trace"`
}

// Engine runs switches and scans against one switcher home.
type Engine struct {
	Layout  paths.Layout
	Profile platform.Profile
	Scanner *discovery.Scanner
	Store   config.Store
	Logger  *log.Logger
	// Roots overrides Profile.Roots when set.
	Roots *discovery.Roots
	// OnState is called on every state transition.
	OnState func(State)
	Now     func() time.Time
}

func (e *Engine) logger() *log.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return log.New(io.Discard)
}

func (e *Engine) scanner() *discovery.Scanner {
	if e.Scanner != nil {
		return e.Scanner
	}
	return &discovery.Scanner{Logger: e.Logger}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) roots() discovery.Roots {
	if e.Roots != nil {
		return *e.Roots
	}
	return e.Profile.Roots()
}

// Rescan runs full discovery, replaces the cached installations and saves
// the snapshot.
func (e *Engine) Rescan(ctx context.Context, cfg config.Config) (config.Config, error) {
	installs := e.scanner().FindAll(ctx, e.roots())
	if err := ctx.Err(); err != nil {
		return cfg, err
	}
	cfg.Refresh(installs, e.now())
	if err := e.Store.Save(cfg); err != nil {
		return cfg, err
	}
	e.logger().Info("cache refreshed", "installations", len(installs))
	return cfg, nil
}

type run struct {
	e   *Engine
	res *Result
}

func (r run) enter(s State) {
	r.res.Trace = append(r.res.Trace, s)
	r.e.logger().Debug("switch state", "state", string(s))
	if r.e.OnState != nil {
		r.e.OnState(s)
	}
}

func (r run) fail(err error) (Result, error) {
	r.enter(Failed)
	r.e.logger().Error("switch failed", "pattern", r.res.Pattern, "err", err)
	return *r.res, err
}

// Switch resolves pattern against the cache, rescanning once on a miss, and
// redirects the bin directory to the matching installation.
func (e *Engine) Switch(ctx context.Context, pattern string) (Result, error) {
	pattern = strings.TrimSpace(pattern)
	res := &Result{Pattern: pattern}
	r := run{e: e, res: res}
	r.enter(Idle)

	cfg, err := e.Store.Load()
	if err != nil {
		return r.fail(err)
	}

	r.enter(Resolving)
	// An entry without binaries (hand-edited cache) counts as a miss.
	v, binaries, ok := cfg.Resolve(pattern)
	if ok && len(binaries) > 0 {
		r.enter(Found)
	} else {
		r.enter(NotFoundLocal)
		r.enter(Scanning)
		e.logger().Info("version not cached; scanning", "pattern", pattern)
		res.Rescanned = true
		cfg, err = e.Rescan(ctx, cfg)
		if err != nil {
			return r.fail(err)
		}
		v, binaries, ok = cfg.Resolve(pattern)
		if !ok || len(binaries) == 0 {
			r.enter(NotFoundSystem)
			return r.fail(&NotFoundError{Pattern: pattern, Hints: e.Profile.InstallHints(pattern)})
		}
		r.enter(Found)
	}
	res.Version = v
	res.Paths = binaries
	e.logger().Info("resolved", "pattern", pattern, "version", v.String(), "paths", len(binaries))

	r.enter(Linking)
	name := e.scanner().Name()
	existing, err := Symlinks(e.Layout.BinDir)
	if err != nil {
		return r.fail(&LinkError{Op: "list", Name: e.Layout.BinDir, Err: err})
	}
	plan, err := BuildPlan(binaries, name, existing)
	if err != nil {
		return r.fail(err)
	}
	res.Plan = plan
	if err := Apply(plan, e.Layout.BinDir); err != nil {
		return r.fail(err)
	}
	for _, b := range plan.Bindings {
		e.logger().Debug("linked", "name", b.Name, "target", b.Target)
	}

	r.enter(Verifying)
	entry := e.Layout.PrimaryBinary(name)
	found, err := e.scanner().Describe(ctx, entry)
	if err != nil {
		res.VerifyErr = err
		e.logger().Warn("verification failed", "path", entry, "err", err)
	} else {
		res.Verified = found.Banner
		if found.Version != v {
			e.logger().Warn("redirected binary reports another version", "want", v.String(), "got", found.Version.String())
		}
	}

	shims, err := e.refreshShims(cfg, entry)
	if err != nil {
		return r.fail(err)
	}
	res.Shims = shims

	r.enter(Done)
	return *res, nil
}

// refreshShims rewrites the wrapper of every managed tool that pins a php
// binary and records which tools got one.
func (e *Engine) refreshShims(cfg config.Config, binary string) ([]string, error) {
	if !cfg.Tools.ScanForTools || len(cfg.Tools.Managed) == 0 {
		return nil, nil
	}

	var written []string
	for i, entry := range cfg.Tools.Managed {
		need := shim.NeedsShim(entry.Shebang)
		cfg.Tools.Managed[i].ShimCreated = need
		if !need {
			continue
		}
		tool := shim.Tool{Name: entry.Name, OriginalPath: entry.OriginalPath, Shebang: entry.Shebang}
		if _, err := shim.Write(tool, e.Layout.BinDir, binary); err != nil {
			return written, err
		}
		written = append(written, entry.Name)
	}
	if err := e.Store.Save(cfg); err != nil {
		return written, err
	}
	return written, nil
}
