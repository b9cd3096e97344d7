package switcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAliasName(t *testing.T) {
	cases := []struct {
		file  string
		alias string
		ok    bool
	}{
		{"interp84-cgi", "interp-cgi", true},
		{"interp84", "", false},
		{"interp8.2-fpm", "interp-fpm", true},
		{"interp-fpm8.2", "interp-fpm", true},
		{"interp-cgi", "interp-cgi", true},
		{"interp", "", false},
		{"interp.", "", false},
		{"other-tool", "other-tool", true},
	}
	for _, tc := range cases {
		alias, ok := AliasName(tc.file, "interp")
		if alias != tc.alias || ok != tc.ok {
			t.Fatalf("AliasName(%s) = %q, %v; want %q, %v", tc.file, alias, ok, tc.alias, tc.ok)
		}
	}
}

func TestBuildPlan(t *testing.T) {
	paths := []string{
		"/usr/bin/interp84-cgi",
		"/usr/bin/interp84",
		"/opt/bin/interp",
		"/opt/bin/interp-cgi8.4",
		"/usr/bin/interp8.4-fpm",
	}
	plan, err := BuildPlan(paths, "interp", []string{"interp", "interp-dbg", "interp-cgi"})
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	want := Plan{
		Bindings: []Binding{
			{Name: "interp", Target: "/opt/bin/interp"},
			{Name: "interp-cgi", Target: "/usr/bin/interp84-cgi"},
			{Name: "interp-fpm", Target: "/usr/bin/interp8.4-fpm"},
		},
		Prune: []string{"interp-dbg"},
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("unexpected plan (-want +got):\n%s", diff)
	}
}

func TestBuildPlanPrimaryFallsBackToFirst(t *testing.T) {
	plan, err := BuildPlan([]string{"/usr/bin/interp81", "/usr/bin/interp81-cgi"}, "interp", nil)
	if err != nil {
		t.Fatalf("build plan: %v", err)
	}
	want := []Binding{
		{Name: "interp", Target: "/usr/bin/interp81"},
		{Name: "interp-cgi", Target: "/usr/bin/interp81-cgi"},
	}
	if diff := cmp.Diff(want, plan.Bindings); diff != "" {
		t.Fatalf("unexpected bindings (-want +got):\n%s", diff)
	}
	if len(plan.Prune) != 0 {
		t.Fatalf("expected nothing to prune, got %v", plan.Prune)
	}
}

func TestBuildPlanEmpty(t *testing.T) {
	if _, err := BuildPlan(nil, "interp", nil); !errors.Is(err, ErrNoBinaries) {
		t.Fatalf("expected ErrNoBinaries, got %v", err)
	}
}

func TestApplyReplacesEntries(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "bin")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink("/stale/interp", filepath.Join(dir, "interp")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := os.Symlink("/stale/interp-dbg", filepath.Join(dir, "interp-dbg")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "composer"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write shim: %v", err)
	}

	plan := Plan{
		Bindings: []Binding{{Name: "interp", Target: "/new/interp"}, {Name: "interp-cgi", Target: "/new/interp-cgi"}},
		Prune:    []string{"interp-dbg", "composer", "gone"},
	}
	if err := Apply(plan, dir); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for name, want := range map[string]string{"interp": "/new/interp", "interp-cgi": "/new/interp-cgi"} {
		got, err := os.Readlink(filepath.Join(dir, name))
		if err != nil || got != want {
			t.Fatalf("%s -> %q (%v), want %s", name, got, err, want)
		}
	}
	if _, err := os.Lstat(filepath.Join(dir, "interp-dbg")); !os.IsNotExist(err) {
		t.Fatalf("expected stale link pruned, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "composer")); err != nil {
		t.Fatalf("regular file must survive pruning: %v", err)
	}

	names, err := Symlinks(dir)
	if err != nil {
		t.Fatalf("symlinks: %v", err)
	}
	if diff := cmp.Diff([]string{"interp", "interp-cgi"}, names); diff != "" {
		t.Fatalf("unexpected links (-want +got):\n%s", diff)
	}
}

func TestApplyAbortsOnFirstFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "interp-cgi")
	if err := os.MkdirAll(filepath.Join(blocker, "inner"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	plan := Plan{Bindings: []Binding{
		{Name: "interp", Target: "/new/interp"},
		{Name: "interp-cgi", Target: "/new/interp-cgi"},
		{Name: "interp-fpm", Target: "/new/interp-fpm"},
	}}
	err := Apply(plan, dir)
	var linkErr *LinkError
	if !errors.As(err, &linkErr) {
		t.Fatalf("expected LinkError, got %v", err)
	}
	if linkErr.Name != "interp-cgi" {
		t.Fatalf("expected failure on interp-cgi, got %s", linkErr.Name)
	}
	if _, err := os.Lstat(filepath.Join(dir, "interp")); err != nil {
		t.Fatalf("entries before the failure stay applied: %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, "interp-fpm")); !os.IsNotExist(err) {
		t.Fatalf("entries after the failure must not be created, got %v", err)
	}
	if _, err := os.Lstat(filepath.Join(dir, ".interp-cgi.new")); !os.IsNotExist(err) {
		t.Fatalf("temporary link left behind: %v", err)
	}
}

func TestSymlinksMissingDir(t *testing.T) {
	names, err := Symlinks(filepath.Join(t.TempDir(), "none"))
	if err != nil || len(names) != 0 {
		t.Fatalf("expected no links, got %v, %v", names, err)
	}
}
