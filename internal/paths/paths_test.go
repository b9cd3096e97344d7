package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveFlagWins(t *testing.T) {
	flagHome := t.TempDir()
	t.Setenv(HomeEnv, t.TempDir())

	layout, err := Resolve(flagHome, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if layout.Root != flagHome {
		t.Fatalf("expected root %s, got %s", flagHome, layout.Root)
	}
	if layout.ConfigFile != filepath.Join(flagHome, "config.toml") {
		t.Fatalf("unexpected config file %s", layout.ConfigFile)
	}
	if layout.BinDir != filepath.Join(flagHome, "bin") {
		t.Fatalf("unexpected bin dir %s", layout.BinDir)
	}
}

func TestResolveEnv(t *testing.T) {
	envHome := t.TempDir()
	t.Setenv(HomeEnv, envHome)

	layout, err := Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if layout.Root != envHome {
		t.Fatalf("expected root %s, got %s", envHome, layout.Root)
	}
}

func TestResolveDefaultsToUserHome(t *testing.T) {
	t.Setenv(HomeEnv, "")
	layout, err := Resolve("", "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(layout.Root) != ".php-switcher" {
		t.Fatalf("expected .php-switcher root, got %s", layout.Root)
	}
	if !strings.HasSuffix(layout.ConfigFile, "config.toml") {
		t.Fatalf("expected config.toml, got %s", layout.ConfigFile)
	}
}

func TestResolveConfigOverride(t *testing.T) {
	home := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "switcher.yaml")
	layout, err := Resolve(home, cfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if layout.ConfigFile != cfg {
		t.Fatalf("expected config override %s, got %s", cfg, layout.ConfigFile)
	}
	if layout.BinDir != filepath.Join(home, "bin") {
		t.Fatalf("bin dir should stay under home, got %s", layout.BinDir)
	}
}

func TestEnsureDirs(t *testing.T) {
	layout := New(filepath.Join(t.TempDir(), "home"))
	if err := layout.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	for _, dir := range []string{layout.Root, layout.BinDir, layout.LogsDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s", dir)
		}
	}
}

func TestOnSearchPath(t *testing.T) {
	layout := New("/home/u/.php-switcher")
	list := strings.Join([]string{"/usr/bin", "/home/u/.php-switcher/bin/", "/bin"}, string(os.PathListSeparator))
	if !layout.OnSearchPath(list) {
		t.Fatal("expected bin dir to be found on search path")
	}
	if layout.OnSearchPath("/usr/bin") {
		t.Fatal("did not expect bin dir on search path")
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if ok, err := FileExists(file); err != nil || !ok {
		t.Fatalf("expected file to exist: %v %v", ok, err)
	}
	if ok, err := FileExists(dir); err != nil || ok {
		t.Fatalf("directory should not count as file: %v %v", ok, err)
	}
	if ok, err := FileExists(filepath.Join(dir, "missing")); err != nil || ok {
		t.Fatalf("missing file should not exist: %v %v", ok, err)
	}
}
