package license

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ffbuild/gngen/internal/config"
	"github.com/ffbuild/gngen/internal/logging"
)

// fakeScript installs an executable stand in for licensecheck.pl that prints
// the given license for every file argument.
func fakeScript(t *testing.T, license string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "licensecheck.pl")
	script := `#!/bin/sh
shift 3
for f in "$@"; do
  printf '%s\t` + license + `\n' "$f"
done
`
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func newChecker(t *testing.T, scriptPath string) *Checker {
	t.Helper()
	return &Checker{
		SourceDir:      t.TempDir(),
		ScriptPath:     scriptPath,
		Allowed:        config.Default().AllowedLicenses,
		UnknownAllowed: config.Default().UnknownLicenseFiles,
		Log:            logging.Discard(),
	}
}

// ============================================================
// ParseOutput
// ============================================================

func TestParseOutput(t *testing.T) {
	out := "/src/a.c\tLGPL (v2.1 or later)\n" +
		"/src/b.c\t*No copyright* MIT/X11 (BSD like)\n" +
		"garbage without a tab\n" +
		"/src/c.c\tUNKNOWN\n"

	got := ParseOutput(out)

	want := []Entry{
		{Path: "/src/a.c", License: "LGPL (v2.1 or later)"},
		{Path: "/src/b.c", License: "MIT/X11 (BSD like)"},
		{Path: "/src/c.c", License: "UNKNOWN"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestParseOutput_Empty(t *testing.T) {
	if got := ParseOutput(""); len(got) != 0 {
		t.Errorf("ParseOutput(\"\") = %v, want none", got)
	}
}

// ============================================================
// Vet
// ============================================================

func TestVet(t *testing.T) {
	c := newChecker(t, "")
	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		t.Fatal(err)
	}

	entries := []Entry{
		{Path: filepath.Join(src, "libavcodec", "fft.c"), License: "LGPL (v2.1 or later)"},
		{Path: filepath.Join(src, "libavcodec", "jrevdct.c"), License: "UNKNOWN"},
		{Path: filepath.Join(src, "libavcodec", "mystery.c"), License: "UNKNOWN"},
		{Path: filepath.Join(src, "libavcodec", "gpl.c"), License: "GPL (v2 or later)"},
	}

	got := c.Vet(entries)

	want := []Violation{
		{Path: filepath.Join(src, "libavcodec", "mystery.c"), License: "UNKNOWN"},
		{Path: filepath.Join(src, "libavcodec", "gpl.c"), License: "GPL (v2 or later)"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

// ============================================================
// Check
// ============================================================

func TestCheck_MissingScriptFails(t *testing.T) {
	c := newChecker(t, filepath.Join(t.TempDir(), "absent.pl"))

	_, err := c.Check([]string{"a.c"})
	if err == nil || !strings.Contains(err.Error(), "licensecheck.pl") {
		t.Errorf("error = %v, want missing script complaint", err)
	}
}

func TestCheck_AllAllowed(t *testing.T) {
	c := newChecker(t, fakeScript(t, "LGPL (v2.1 or later)"))

	entries, err := c.Check([]string{filepath.FromSlash("libavcodec/fft.c")})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		t.Fatal(err)
	}
	wantPath := filepath.Join(src, "libavcodec", "fft.c")
	if entries[0].Path != wantPath {
		t.Errorf("Path = %q, want %q", entries[0].Path, wantPath)
	}
	if entries[0].License != "LGPL (v2.1 or later)" {
		t.Errorf("License = %q", entries[0].License)
	}
}

func TestCheck_ForbiddenLicenseFails(t *testing.T) {
	c := newChecker(t, fakeScript(t, "GPL (v3 or later)"))

	entries, err := c.Check([]string{filepath.FromSlash("libavcodec/fft.c")})
	if !errors.Is(err, ErrForbiddenLicense) {
		t.Fatalf("error = %v, want ErrForbiddenLicense", err)
	}
	if len(entries) != 1 {
		t.Errorf("entries should come back with the error, got %d", len(entries))
	}
}

// ============================================================
// PrintReport
// ============================================================

func TestPrintReport_SortedRelativeRows(t *testing.T) {
	c := newChecker(t, "")
	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		t.Fatal(err)
	}

	entries := []Entry{
		{Path: filepath.Join(src, "libavutil", "log.c"), License: "LGPL (v2.1 or later)"},
		{Path: filepath.Join(src, "libavcodec", "fft.c"), License: "MIT/X11 (BSD like)"},
	}

	var buf bytes.Buffer
	if err := c.PrintReport(&buf, entries); err != nil {
		t.Fatalf("PrintReport: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"FILE", "LICENSE"} {
		if !strings.Contains(strings.ToUpper(out), want) {
			t.Errorf("report missing %q header:\n%s", want, out)
		}
	}
	for _, want := range []string{filepath.FromSlash("libavcodec/fft.c"), filepath.FromSlash("libavutil/log.c")} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "libavcodec") > strings.Index(out, "libavutil") {
		t.Errorf("rows not sorted:\n%s", out)
	}
}
