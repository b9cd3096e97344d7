package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// SourceAuto tags entries produced by a discovery run.
const SourceAuto = "auto"

// Config is the persisted snapshot: settings, cached installations and
// tracked tools.
type Config struct {
	Settings Settings       `toml:"settings" yaml:"settings" json:"settings"`
	Versions []VersionEntry `toml:"versions" yaml:"versions" json:"versions"`
	Tools    ToolsConfig    `toml:"tools" yaml:"tools" json:"tools"`
}

// Settings holds scan metadata and the user's default version.
type Settings struct {
	LastScan       string `toml:"last_scan,omitempty" yaml:"last_scan,omitempty" json:"last_scan,omitempty"`
	DefaultVersion string `toml:"default_version,omitempty" yaml:"default_version,omitempty" json:"default_version,omitempty"`
}

// VersionEntry is one cached installation.
type VersionEntry struct {
	Version string   `toml:"version" yaml:"version" json:"version"`
	Paths   []string `toml:"paths" yaml:"paths" json:"paths"`
	Source  string   `toml:"source" yaml:"source" json:"source"`
}

// ToolsConfig controls tool scanning and records the tools found.
type ToolsConfig struct {
	ScanForTools      bool        `toml:"scan_for_tools" yaml:"scan_for_tools" json:"scan_for_tools"`
	CustomToolNames   []string    `toml:"custom_tool_names" yaml:"custom_tool_names" json:"custom_tool_names"`
	CustomSearchPaths []string    `toml:"custom_search_paths" yaml:"custom_search_paths" json:"custom_search_paths"`
	Managed           []ToolEntry `toml:"managed" yaml:"managed" json:"managed"`
}

// ToolEntry tracks a tool script whose interpreter line may need a shim.
type ToolEntry struct {
	Name         string `toml:"name" yaml:"name" json:"name"`
	OriginalPath string `toml:"original_path" yaml:"original_path" json:"original_path"`
	Shebang      string `toml:"shebang" yaml:"shebang" json:"shebang"`
	ShimCreated  bool   `toml:"shim_created" yaml:"shim_created" json:"shim_created"`
}

// Default returns the empty configuration. Tool scanning is opt-in.
func Default() Config {
	return Config{}
}

// Format selects the on-disk encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatFor picks the encoding from the file extension; anything other than
// .yaml/.yml is TOML.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// PersistenceError reports a cache file that could not be read, decoded or
// written.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s config %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Load reads the configuration from disk if it exists, otherwise returns the
// default configuration. A malformed file is an error.
func Load(path string) (Config, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, &PersistenceError{Op: "read", Path: path, Err: err}
	}

	cfg := Default()
	if err := Unmarshal(FormatFor(path), contents, &cfg); err != nil {
		return Config{}, &PersistenceError{Op: "parse", Path: path, Err: err}
	}
	return cfg, nil
}

// Unmarshal decodes data in the given format into cfg.
func Unmarshal(format Format, data []byte, cfg *Config) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, cfg)
	default:
		_, err := toml.Decode(string(data), cfg)
		return err
	}
}

// Marshal returns the encoding of the configuration in the given format.
func (c Config) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		buf, err := yaml.Marshal(&c)
		if err != nil {
			return nil, fmt.Errorf("marshal config: %w", err)
		}
		return buf, nil
	default:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, fmt.Errorf("marshal config: %w", err)
		}
		return buf.Bytes(), nil
	}
}

// Save writes the configuration through a temp file and rename so a crash
// never leaves a truncated cache behind.
func Save(path string, c Config) error {
	buf, err := c.Marshal(FormatFor(path))
	if err != nil {
		return &PersistenceError{Op: "encode", Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: fmt.Errorf("prepare config directory: %w", err)}
	}

	tmp, err := os.CreateTemp(dir, "config-*.tmp")
	if err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	// CreateTemp uses 0600; the cache is meant to be read and edited by hand.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &PersistenceError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Store loads and saves the snapshot at a fixed path.
type Store interface {
	Load() (Config, error)
	Save(Config) error
}

// FileStore is a Store backed by one file.
type FileStore struct {
	Path string
}

func (s FileStore) Load() (Config, error) { return Load(s.Path) }

func (s FileStore) Save(c Config) error { return Save(s.Path, c) }

var _ Store = FileStore{}
