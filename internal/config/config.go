// Package config holds the tunable inputs of the generator: which object
// files to drop, which includes may stay unresolved, and which licenses the
// checked sources may carry. The built in defaults mirror the Chromium ffmpeg
// configuration and a YAML file can override any of them.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"
)

// PatternList matches slash separated relative paths against a list of glob
// patterns. A wildcard does not cross path separators.
type PatternList struct {
	patterns []string
	compiled []glob.Glob
}

// NewPatternList compiles the given patterns.
func NewPatternList(patterns []string) (*PatternList, error) {
	pl := &PatternList{patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		pl.compiled = append(pl.compiled, g)
	}
	return pl, nil
}

// MustPatternList compiles the given patterns and panics on failure. Reserved
// for the built in defaults.
func MustPatternList(patterns ...string) *PatternList {
	pl, err := NewPatternList(patterns)
	if err != nil {
		panic(err)
	}
	return pl
}

// Match reports whether any pattern matches the path. The path may use the
// native separator.
func (pl *PatternList) Match(path string) bool {
	if pl == nil {
		return false
	}
	path = filepath.ToSlash(path)
	for _, g := range pl.compiled {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Patterns returns the uncompiled pattern list.
func (pl *PatternList) Patterns() []string {
	if pl == nil {
		return nil
	}
	return pl.patterns
}

// UnmarshalYAML replaces the list with the patterns of a YAML sequence.
func (pl *PatternList) UnmarshalYAML(bs []byte) error {
	var patterns []string
	if err := yaml.Unmarshal(bs, &patterns); err != nil {
		return err
	}
	fresh, err := NewPatternList(patterns)
	if err != nil {
		return err
	}
	*pl = *fresh
	return nil
}

// Config is the full generator configuration.
type Config struct {
	// Object files dropped before mapping objects back to sources, as paths
	// relative to the build directory's target subdirectory.
	ExcludedObjects *PatternList `yaml:"excluded_objects"`

	// Includes that may stay unresolved without failing the run, as paths
	// relative to the source directory.
	IgnoredIncludes *PatternList `yaml:"ignored_includes"`

	// Licenses acceptable for static linking.
	AllowedLicenses []string `yaml:"allowed_licenses"`

	// Files permitted to report an UNKNOWN license, as paths relative to the
	// source directory.
	UnknownLicenseFiles *PatternList `yaml:"unknown_license_files"`

	// Overrides the licensecheck.pl location. Empty means the script is
	// looked up relative to the source directory.
	LicensecheckPath string `yaml:"licensecheck_path"`
}

// Load returns the defaults overridden by the YAML file at path. An empty
// path returns the defaults as they are. Keys absent from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
