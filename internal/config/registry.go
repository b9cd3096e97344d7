package config

import (
	"slices"
	"time"

	"phpswitcher/internal/discovery"
	"phpswitcher/internal/version"
)

// Lookup returns the paths of the first cached installation whose version
// matches pattern. Entries are kept newest first, so an under-specified
// pattern such as "8" resolves to the newest 8.x.
func (c Config) Lookup(pattern string) ([]string, bool) {
	_, paths, ok := c.Resolve(pattern)
	return paths, ok
}

// Resolve is Lookup that also reports the matched version.
func (c Config) Resolve(pattern string) (version.Version, []string, bool) {
	for _, entry := range c.Versions {
		v, err := version.FromString(entry.Version)
		if err != nil {
			continue
		}
		if v.Matches(pattern) {
			return v, slices.Clone(entry.Paths), true
		}
	}
	return version.Version{}, nil, false
}

// PrimaryPath returns the primary binary of the installation matching pattern.
func (c Config) PrimaryPath(pattern, binaryName string) (string, bool) {
	paths, ok := c.Lookup(pattern)
	if !ok || len(paths) == 0 {
		return "", false
	}
	return discovery.PrimaryOf(paths, binaryName), true
}

// Refresh replaces every cached installation with installs and records the
// scan time. An empty list clears the cache.
func (c *Config) Refresh(installs []discovery.Installation, now time.Time) {
	versions := make([]VersionEntry, 0, len(installs))
	for _, inst := range installs {
		versions = append(versions, VersionEntry{
			Version: inst.Version.String(),
			Paths:   slices.Clone(inst.Paths),
			Source:  SourceAuto,
		})
	}
	c.Versions = versions
	c.Settings.LastScan = now.UTC().Format(time.RFC3339)
}

// Installations decodes the cached entries, skipping unparseable versions.
func (c Config) Installations() []discovery.Installation {
	out := make([]discovery.Installation, 0, len(c.Versions))
	for _, entry := range c.Versions {
		v, err := version.FromString(entry.Version)
		if err != nil {
			continue
		}
		out = append(out, discovery.Installation{Version: v, Paths: slices.Clone(entry.Paths)})
	}
	return out
}
