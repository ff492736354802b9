// Package license vets the licenses of every source file that ends up in the
// build, through the licensecheck.pl script shipped with Chromium.
package license

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/ffbuild/gngen/internal/config"
	"github.com/ffbuild/gngen/internal/logging"
)

// ErrForbiddenLicense reports files whose license does not allow static
// linking.
var ErrForbiddenLicense = errors.New("forbidden license detected")

// Entry is one line of licensecheck output: a scanned file and the license
// it reported.
type Entry struct {
	Path    string
	License string
}

// Violation is an entry that failed the vetting.
type Violation struct {
	Path    string
	License string
}

// Checker runs licensecheck.pl and vets its findings against the allowed
// license lists.
type Checker struct {
	// SourceDir is the ffmpeg source tree the checked files live in.
	SourceDir string

	// ScriptPath overrides the licensecheck.pl location. Empty means
	// <SourceDir>/../../third_party/devscripts/licensecheck.pl, the layout
	// of a Chromium checkout.
	ScriptPath string

	// Allowed lists the licenses acceptable for static linking.
	Allowed []string

	// UnknownAllowed lists files cleared to report an UNKNOWN license, as
	// paths relative to the source directory.
	UnknownAllowed *config.PatternList

	Log *logging.Logger
}

// Check runs the script over the files and vets every reported entry. Files
// may be absolute or relative to the source directory. All entries come back
// even when vetting fails, so callers can still print the report.
func (c *Checker) Check(files []string) ([]Entry, error) {
	script, err := c.script()
	if err != nil {
		return nil, err
	}

	args := []string{"-m", "-l", "100"}
	for _, f := range files {
		if !filepath.IsAbs(f) {
			f = filepath.Join(c.SourceDir, f)
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		args = append(args, abs)
	}

	cmd := exec.Command(script, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- cmd.Run() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("licensecheck failed: %w (stderr: %s)",
				err, strings.TrimSpace(stderr.String()))
		}
	case <-time.After(5 * time.Minute):
		cmd.Process.Kill()
		return nil, fmt.Errorf("licensecheck timed out after 5 minutes")
	}

	entries := ParseOutput(stdout.String())
	violations := c.Vet(entries)
	if len(violations) > 0 {
		for _, v := range violations {
			c.Log.Errorf("unexpected license: %s: %s", v.Path, v.License)
		}
		return entries, fmt.Errorf("%w in %d files", ErrForbiddenLicense, len(violations))
	}
	return entries, nil
}

// Vet returns the entries whose license cannot be statically linked. UNKNOWN
// passes only for files the configuration explicitly clears, matched by
// their path relative to the source directory.
func (c *Checker) Vet(entries []Entry) []Violation {
	allowed := make(map[string]bool, len(c.Allowed))
	for _, l := range c.Allowed {
		allowed[l] = true
	}

	var violations []Violation
	for _, e := range entries {
		if allowed[e.License] {
			continue
		}
		if e.License == "UNKNOWN" && c.UnknownAllowed.Match(c.relToSource(e.Path)) {
			continue
		}
		violations = append(violations, Violation{Path: e.Path, License: e.License})
	}
	return violations
}

// PrintReport writes a table of every checked file and its license, sorted
// by path relative to the source directory.
func (c *Checker) PrintReport(w io.Writer, entries []Entry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{c.relToSource(e.Path), e.License})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })

	table := tablewriter.NewTable(w)
	table.Header("File", "License")
	for _, row := range rows {
		table.Append(row)
	}
	return table.Render()
}

// ParseOutput parses machine readable licensecheck output, one
// "path<TAB>license" line per file. The "*No copyright*" marker is part of
// the license column and gets stripped. Lines without a tab are skipped.
func ParseOutput(out string) []Entry {
	var entries []Entry
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		path, license, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		license = strings.TrimSpace(strings.ReplaceAll(license, "*No copyright*", ""))
		entries = append(entries, Entry{Path: path, License: license})
	}
	return entries
}

func (c *Checker) script() (string, error) {
	path := c.ScriptPath
	if path == "" {
		root, err := filepath.Abs(filepath.Join(c.SourceDir, "..", ".."))
		if err != nil {
			return "", err
		}
		path = filepath.Join(root, "third_party", "devscripts", "licensecheck.pl")
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("could not find licensecheck.pl at %s: %w", path, err)
	}
	return path, nil
}

func (c *Checker) relToSource(path string) string {
	abs, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(abs, path)
	if err != nil {
		return path
	}
	return rel
}
