package discovery

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"phpswitcher/internal/version"
)

const (
	// DefaultBinaryName is the canonical interpreter binary name.
	DefaultBinaryName = "php"
	// DefaultVersionFlag makes the interpreter print its banner.
	DefaultVersionFlag = "-v"
)

// Found is one probed binary.
type Found struct {
	Version version.Version
	Path    string
	Banner  string
}

// Installation groups every discovered binary that reports the same version.
type Installation struct {
	Version version.Version
	Paths   []string
}

// Roots lists the places FindAll looks at, in priority order.
type Roots struct {
	// BinDirs are scanned directly.
	BinDirs []string
	// VersionRoots hold one directory per installed version, each with a bin
	// child (phpbrew, phpenv).
	VersionRoots []string
	// CellarRoots hold formula directories, each with one directory per
	// version, each with a bin child (Homebrew).
	CellarRoots []string
}

// Scanner probes candidate binaries. The zero value scans for php using
// os/exec.
type Scanner struct {
	Runner      Runner
	BinaryName  string
	VersionFlag string
	// Banner is the name preceding the version in probe output. Defaults to
	// the upper-cased binary name.
	Banner   string
	LookPath func(string) (string, error)
	Logger   *log.Logger
}

func (s *Scanner) runner() Runner {
	if s.Runner != nil {
		return s.Runner
	}
	return CmdRunner{}
}

// Name returns the canonical binary name being scanned for.
func (s *Scanner) Name() string { return s.binaryName() }

func (s *Scanner) binaryName() string {
	if s.BinaryName != "" {
		return s.BinaryName
	}
	return DefaultBinaryName
}

func (s *Scanner) versionFlag() string {
	if s.VersionFlag != "" {
		return s.VersionFlag
	}
	return DefaultVersionFlag
}

func (s *Scanner) banner() string {
	if s.Banner != "" {
		return s.Banner
	}
	return strings.ToUpper(s.binaryName())
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.New(io.Discard)
}

// ScanDirectory probes every regular file in dir whose name starts with the
// binary name. Files that fail to probe are skipped; a missing or unreadable
// directory yields nothing.
func (s *Scanner) ScanDirectory(ctx context.Context, dir string) []Found {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var found []Found
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), s.binaryName()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		// Stat follows symlinks so a link to a binary counts as a file.
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		v, err := s.ProbeBinary(ctx, path)
		if err != nil {
			s.logger().Debug("skip candidate", "path", path, "err", err)
			continue
		}
		found = append(found, Found{Version: v, Path: path})
	}
	return found
}

// FindAll scans every root and merges binaries into one Installation per
// version, newest first. A binary reachable through several paths (symlinks,
// overlapping roots) is recorded once, under the first path seen.
func (s *Scanner) FindAll(ctx context.Context, roots Roots) []Installation {
	c := newCollector()

	for _, dir := range scanDirs(roots, s.binaryName()) {
		if ctx.Err() != nil {
			break
		}
		for _, f := range s.ScanDirectory(ctx, dir) {
			if !c.add(f) {
				s.logger().Debug("duplicate binary", "path", f.Path)
			}
		}
	}

	installs := c.installations()
	s.logger().Info("discovery finished", "installations", len(installs))
	return installs
}

// scanDirs expands roots into the ordered list of bin directories to scan.
func scanDirs(roots Roots, prefix string) []string {
	dirs := slices.Clone(roots.BinDirs)

	for _, root := range roots.CellarRoots {
		for _, formula := range subdirs(root) {
			if !strings.HasPrefix(filepath.Base(formula), prefix) {
				continue
			}
			for _, versionDir := range subdirs(formula) {
				dirs = append(dirs, filepath.Join(versionDir, "bin"))
			}
		}
	}

	for _, root := range roots.VersionRoots {
		for _, versionDir := range subdirs(root) {
			dirs = append(dirs, filepath.Join(versionDir, "bin"))
		}
	}
	return dirs
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		out = append(out, path)
	}
	return out
}

// collector holds the state of one discovery run.
type collector struct {
	seen  map[string]struct{}
	byVer map[version.Version]*Installation
	order []version.Version
}

func newCollector() *collector {
	return &collector{
		seen:  map[string]struct{}{},
		byVer: map[version.Version]*Installation{},
	}
}

// add records f unless its canonical path was already seen or cannot be
// resolved.
func (c *collector) add(f Found) bool {
	canonical, err := filepath.EvalSymlinks(f.Path)
	if err != nil {
		return false
	}
	if abs, err := filepath.Abs(canonical); err == nil {
		canonical = abs
	}
	if _, dup := c.seen[canonical]; dup {
		return false
	}
	c.seen[canonical] = struct{}{}

	inst, ok := c.byVer[f.Version]
	if !ok {
		inst = &Installation{Version: f.Version}
		c.byVer[f.Version] = inst
		c.order = append(c.order, f.Version)
	}
	if !slices.Contains(inst.Paths, f.Path) {
		inst.Paths = append(inst.Paths, f.Path)
	}
	return true
}

func (c *collector) installations() []Installation {
	out := make([]Installation, 0, len(c.order))
	for _, v := range c.order {
		out = append(out, *c.byVer[v])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Version.Less(out[i].Version)
	})
	return out
}

// PrimaryPath returns the path named exactly like the binary, falling back
// to the first discovered path.
func PrimaryPath(inst Installation, binaryName string) string {
	return PrimaryOf(inst.Paths, binaryName)
}

// PrimaryOf is PrimaryPath for a bare path list.
func PrimaryOf(paths []string, binaryName string) string {
	for _, p := range paths {
		if filepath.Base(p) == binaryName {
			return p
		}
	}
	if len(paths) > 0 {
		return paths[0]
	}
	return ""
}
