package config

import (
	"fmt"
	"os"

	"phpswitcher/internal/version"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the cached snapshot for entries that would break lookups or
// switching.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateVersions()...)
	results = append(results, c.validateDefault()...)
	results = append(results, c.validateTools()...)
	return results
}

func (c Config) validateVersions() []ValidationResult {
	var results []ValidationResult
	seen := map[string]bool{}
	for i, entry := range c.Versions {
		v, err := version.FromString(entry.Version)
		if err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("versions[%d]: invalid version %q", i, entry.Version),
			})
			continue
		}
		if seen[v.String()] {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("versions[%d]: duplicate version %s", i, v),
			})
		}
		seen[v.String()] = true

		if len(entry.Paths) == 0 {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("version %s has no paths", v),
			})
		}
		for _, p := range entry.Paths {
			if _, err := os.Stat(p); err != nil {
				results = append(results, ValidationResult{
					Level:   "warning",
					Message: fmt.Sprintf("version %s: %s is missing; run scan", v, p),
				})
			}
		}
	}
	return results
}

func (c Config) validateDefault() []ValidationResult {
	pattern := c.Settings.DefaultVersion
	if pattern == "" {
		return nil
	}
	if _, ok := c.Lookup(pattern); !ok {
		return []ValidationResult{{
			Level:   "warning",
			Message: fmt.Sprintf("default version %s matches no cached installation", pattern),
		}}
	}
	return nil
}

func (c Config) validateTools() []ValidationResult {
	var results []ValidationResult
	for _, t := range c.Tools.Managed {
		if _, err := os.Stat(t.OriginalPath); err != nil {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("tool %s: %s is missing; run tools scan", t.Name, t.OriginalPath),
			})
		}
	}
	return results
}
