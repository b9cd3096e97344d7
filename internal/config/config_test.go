package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sampleConfig() Config {
	cfg := Default()
	cfg.Settings.DefaultVersion = "8.2"
	cfg.Settings.LastScan = "2026-10-14T09:00:00Z"
	cfg.Versions = []VersionEntry{
		{Version: "8.2.12", Paths: []string{"/usr/bin/php8.2", "/usr/bin/php-cgi8.2"}, Source: SourceAuto},
		{Version: "7.4.33", Paths: []string{"/usr/bin/php7.4"}, Source: SourceAuto},
	}
	cfg.Tools.ScanForTools = true
	cfg.Tools.CustomToolNames = []string{"my-tool"}
	cfg.Tools.CustomSearchPaths = []string{"/opt/bin"}
	cfg.Tools.Managed = []ToolEntry{{
		Name:         "composer",
		OriginalPath: "/usr/bin/composer",
		Shebang:      "#!/usr/bin/php",
		ShimCreated:  true,
	}}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Settings.LastScan != "" || cfg.Settings.DefaultVersion != "" {
		t.Fatalf("expected empty settings, got %+v", cfg.Settings)
	}
	if len(cfg.Versions) != 0 {
		t.Fatalf("expected no versions, got %v", cfg.Versions)
	}
	if cfg.Tools.ScanForTools {
		t.Fatal("tool scanning must be opt-in")
	}
}

func TestFormatFor(t *testing.T) {
	cases := map[string]Format{
		"config.toml": FormatTOML,
		"config.yaml": FormatYAML,
		"config.YML":  FormatYAML,
		"config":      FormatTOML,
	}
	for path, want := range cases {
		if got := FormatFor(path); got != want {
			t.Fatalf("FormatFor(%s) = %s, want %s", path, got, want)
		}
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := sampleConfig()
			if err := Save(path, cfg); err != nil {
				t.Fatalf("save: %v", err)
			}
			loaded, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(cfg, loaded, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}

			entries, err := os.ReadDir(filepath.Dir(path))
			if err != nil {
				t.Fatalf("read dir: %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("expected only the config file, found %d entries", len(entries))
			}
		})
	}
}

func TestSaveLeavesCacheWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	for _, name := range []string{"config.toml", "config.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := Save(path, sampleConfig()); err != nil {
			t.Fatalf("save: %v", err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0o644 {
			t.Fatalf("%s: expected mode 0644, got %v", name, perm)
		}
	}
}

func TestTOMLIsHumanEditable(t *testing.T) {
	data, err := sampleConfig().Marshal(FormatTOML)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	text := string(data)
	for _, want := range []string{"[settings]", "default_version", "[[versions]]", "8.2.12", "/usr/bin/php8.2", "scan_for_tools = true", "#!/usr/bin/php"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in:\n%s", want, text)
		}
	}
}

func TestLoadHandEditedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `[settings]
default_version = "7.4"

[[versions]]
version = "7.4.33"
paths = ["/usr/bin/php7.4"]
source = "manual"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings.DefaultVersion != "7.4" || len(cfg.Versions) != 1 || cfg.Versions[0].Source != "manual" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Tools.ScanForTools {
		t.Fatal("missing tools section should keep defaults")
	}
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("expected defaults (-want +got):\n%s", diff)
	}
}

func TestLoadMalformedIsError(t *testing.T) {
	for name, contents := range map[string]string{
		"config.toml": "[settings\nlast_scan = ",
		"config.yaml": "settings: [unclosed",
	} {
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := Load(path)
		var perr *PersistenceError
		if !errors.As(err, &perr) {
			t.Fatalf("%s: expected PersistenceError, got %v", name, err)
		}
		if perr.Op != "parse" || perr.Path != path {
			t.Fatalf("%s: unexpected error fields %+v", name, perr)
		}
	}
}

func TestFileStore(t *testing.T) {
	store := FileStore{Path: filepath.Join(t.TempDir(), "config.toml")}
	cfg := sampleConfig()
	if err := store.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Settings.DefaultVersion != "8.2" {
		t.Fatalf("unexpected default %q", loaded.Settings.DefaultVersion)
	}
}
