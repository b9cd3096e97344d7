// Package shim finds tool scripts whose interpreter line pins a fixed php
// binary and writes wrapper scripts that route them through the redirected
// binary instead.
package shim

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// CommonTools are the tool names scanned for by default.
var CommonTools = []string{
	"composer",
	"phpunit",
	"psalm",
	"phpstan",
	"rector",
	"php-cs-fixer",
	"phpize",
	"php-config",
}

// ErrNoShebang is returned for files whose first line is not an interpreter line.
var ErrNoShebang = errors.New("no shebang line")

// Tool is a script found on disk.
type Tool struct {
	Name         string
	OriginalPath string
	Shebang      string
}

// ReadShebang returns the trimmed first line of path.
func ReadShebang(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", path, ErrNoShebang)
	}
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "#!") {
		return "", fmt.Errorf("read %s: %w", path, ErrNoShebang)
	}
	return line, nil
}

// NeedsShim reports whether a shebang hard-codes a php binary. Lines that go
// through env already follow PATH.
func NeedsShim(line string) bool {
	if !strings.HasPrefix(line, "#!") {
		return false
	}
	if strings.Contains(line, "/env ") || strings.Contains(line, "/env\t") {
		return false
	}
	return strings.Contains(line, "php")
}

// Generate returns the wrapper script for tool that runs it with binary.
func Generate(tool Tool, binary string) string {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "# Generated by php-switcher for %s\n", tool.Name)
	fmt.Fprintf(&b, "# Original: %s\n", tool.OriginalPath)
	fmt.Fprintf(&b, "exec %s %s \"$@\"\n", shellQuote(binary), shellQuote(tool.OriginalPath))
	return b.String()
}

// Write stores the wrapper for tool in dir, replacing any existing file, and
// returns its path. The mode is set explicitly since WriteFile keeps the mode
// of a file that already exists.
func Write(tool Tool, dir, binary string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create shim directory: %w", err)
	}
	path := filepath.Join(dir, tool.Name)

	// A previous switch may have left a symlink under this name.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("replace %s: %w", path, err)
		}
	}

	if err := os.WriteFile(path, []byte(Generate(tool, binary)), 0o755); err != nil {
		return "", fmt.Errorf("write shim %s: %w", tool.Name, err)
	}
	if err := os.Chmod(path, 0o755); err != nil {
		return "", fmt.Errorf("chmod shim %s: %w", tool.Name, err)
	}
	return path, nil
}

// Scan looks up each name in searchPaths, in order, and records the first
// regular file that carries a shebang. Names that are not found are omitted.
func Scan(names, searchPaths []string) []Tool {
	var tools []Tool
	seen := map[string]bool{}
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		for _, dir := range searchPaths {
			if dir == "" {
				continue
			}
			candidate := filepath.Join(dir, name)
			info, err := os.Stat(candidate)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			line, err := ReadShebang(candidate)
			if err != nil {
				continue
			}
			tools = append(tools, Tool{Name: name, OriginalPath: candidate, Shebang: line})
			break
		}
	}
	return tools
}

// SearchPaths returns custom followed by the entries of a PATH-style list,
// leaving out exclude (the redirection directory, whose shims would otherwise
// be found instead of the real tools).
func SearchPaths(custom []string, pathList, exclude string) []string {
	var out []string
	for _, dir := range append(append([]string{}, custom...), filepath.SplitList(pathList)...) {
		if dir == "" {
			continue
		}
		if exclude != "" && filepath.Clean(dir) == filepath.Clean(exclude) {
			continue
		}
		out = append(out, dir)
	}
	return out
}

// Names merges CommonTools with extra names.
func Names(extra []string) []string {
	return append(append([]string{}, CommonTools...), extra...)
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]#~!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
