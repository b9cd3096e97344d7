package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HomeEnv overrides the switcher home directory.
const HomeEnv = "PHP_SWITCHER_HOME"

// Layout captures canonical locations under the switcher home (~/.php-switcher).
type Layout struct {
	Root       string
	ConfigFile string
	BinDir     string
	LogsDir    string
}

// Resolve determines the switcher home from the --home flag, then
// $PHP_SWITCHER_HOME, then ~/.php-switcher. A non-empty configFlag replaces
// the cache file location.
func Resolve(homeFlag, configFlag string) (Layout, error) {
	root := strings.TrimSpace(homeFlag)
	if root == "" {
		root = strings.TrimSpace(os.Getenv(HomeEnv))
	}
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Layout{}, fmt.Errorf("detect user home: %w", err)
		}
		root = filepath.Join(home, ".php-switcher")
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve switcher home: %w", err)
	}

	layout := New(abs)
	if cfg := strings.TrimSpace(configFlag); cfg != "" {
		cfgAbs, err := filepath.Abs(cfg)
		if err != nil {
			return Layout{}, fmt.Errorf("resolve config path: %w", err)
		}
		layout.ConfigFile = cfgAbs
	}
	return layout, nil
}

// New returns the layout rooted at root.
func New(root string) Layout {
	return Layout{
		Root:       root,
		ConfigFile: filepath.Join(root, "config.toml"),
		BinDir:     filepath.Join(root, "bin"),
		LogsDir:    filepath.Join(root, "logs"),
	}
}

// PrimaryBinary is the redirection entry for the canonical binary name.
func (l Layout) PrimaryBinary(name string) string {
	return filepath.Join(l.BinDir, name)
}

// EnsureDirs creates the home, bin and logs directories.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.Root, l.BinDir, l.LogsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// OnSearchPath reports whether the bin directory appears in a PATH-style list.
func (l Layout) OnSearchPath(pathList string) bool {
	for _, entry := range filepath.SplitList(pathList) {
		if filepath.Clean(entry) == filepath.Clean(l.BinDir) {
			return true
		}
	}
	return false
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}
