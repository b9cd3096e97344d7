package switcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"phpswitcher/internal/discovery"
)

// ErrNoBinaries is returned when an installation has no paths to link.
var ErrNoBinaries = errors.New("no binaries to link")

// Binding is one redirection entry: a name inside the bin directory and the
// binary it points at.
type Binding struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// Plan is the full set of changes for one switch.
type Plan struct {
	Bindings []Binding `json:"bindings"`
	// Prune names existing symlinks that the new installation does not
	// provide.
	Prune []string `json:"prune,omitempty"`
}

// LinkError reports the entry that stopped a switch. Entries applied before
// it are left in place.
type LinkError struct {
	Op     string
	Name   string
	Target string
	Err    error
}

func (e *LinkError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Name, e.Target, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }

// AliasName derives the standard name for a related binary by removing the
// version token that follows the canonical prefix, so php84-cgi becomes
// php-cgi and php-fpm8.2 becomes php-fpm. It reports false when nothing but
// a version remains (php84), since the canonical entry already covers it.
// Names without the prefix are returned unchanged.
func AliasName(filename, canonical string) (string, bool) {
	if !strings.HasPrefix(filename, canonical) {
		return filename, true
	}
	rest := strings.TrimLeft(strings.TrimPrefix(filename, canonical), "0123456789.")
	rest = strings.TrimRight(rest, "0123456789.")
	if rest == "" {
		return "", false
	}
	alias := canonical + rest
	if alias == canonical {
		return "", false
	}
	return alias, true
}

// BuildPlan maps an installation's paths onto redirection entries. The
// primary path gets the canonical name; every other path gets its alias. When
// two paths produce the same alias the first one wins. Existing symlink names
// that end up unbound are scheduled for pruning.
func BuildPlan(paths []string, canonical string, existing []string) (Plan, error) {
	if len(paths) == 0 {
		return Plan{}, ErrNoBinaries
	}

	primary := discovery.PrimaryOf(paths, canonical)
	plan := Plan{Bindings: []Binding{{Name: canonical, Target: primary}}}
	bound := map[string]bool{canonical: true}

	for _, p := range paths {
		if p == primary {
			continue
		}
		alias, ok := AliasName(filepath.Base(p), canonical)
		if !ok || bound[alias] {
			continue
		}
		bound[alias] = true
		plan.Bindings = append(plan.Bindings, Binding{Name: alias, Target: p})
	}

	for _, name := range existing {
		if !bound[name] {
			plan.Prune = append(plan.Prune, name)
		}
	}
	slices.Sort(plan.Prune)
	return plan, nil
}

// Symlinks lists the names of the symlinks in dir. A missing directory has
// none.
func Symlinks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Apply creates dir and points every binding at its target. Each entry is
// written as a temporary symlink and renamed over the old one, so the name
// never disappears. The first failure aborts with a *LinkError; nothing is
// rolled back.
func Apply(plan Plan, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &LinkError{Op: "mkdir", Name: dir, Err: err}
	}

	for _, b := range plan.Bindings {
		if err := replaceLink(dir, b); err != nil {
			return err
		}
	}

	for _, name := range plan.Prune {
		path := filepath.Join(dir, name)
		info, err := os.Lstat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return &LinkError{Op: "prune", Name: name, Err: err}
		}
		if info.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &LinkError{Op: "prune", Name: name, Err: err}
		}
	}
	return nil
}

func replaceLink(dir string, b Binding) error {
	entry := filepath.Join(dir, b.Name)
	tmp := filepath.Join(dir, "."+b.Name+".new")

	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &LinkError{Op: "link", Name: b.Name, Target: b.Target, Err: err}
	}
	if err := os.Symlink(b.Target, tmp); err != nil {
		return &LinkError{Op: "link", Name: b.Name, Target: b.Target, Err: err}
	}
	if err := os.Rename(tmp, entry); err != nil {
		_ = os.Remove(tmp)
		return &LinkError{Op: "link", Name: b.Name, Target: b.Target, Err: err}
	}
	return nil
}
