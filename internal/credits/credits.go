// Package credits assembles the CREDITS.chromium notice file from the
// license headers of every file that ships in the build. Files carrying the
// same license text are grouped into one section regardless of who holds
// their copyright.
package credits

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ffbuild/gngen/internal/logging"
)

// CreditsFile is the notice file name, written into the source directory.
const CreditsFile = "CREDITS.chromium"

const banner = `License notices for the parts of FFmpeg built into Chromium.
Generated by gngen. Do not edit.

`

const separator = "--------------------------------------------------------------------------------\n"

// Attribution lines are dropped before grouping so that files differing only
// in their copyright holders share a section.
var reAttribution = regexp.MustCompile(`(?i)^(copyright\b|\(c\)|portions copyright|written by|authored by|developed by|modified by|based on)`)

type bucket struct {
	// text is the header of the first file seen with this license.
	text  string
	files []string
}

// Updater collects license headers file by file and writes the combined
// notice file.
type Updater struct {
	SourceDir string
	Log       *logging.Logger

	buckets map[string]*bucket
	missing []string
}

// NewUpdater creates an Updater for the given source tree.
func NewUpdater(sourceDir string, log *logging.Logger) *Updater {
	return &Updater{
		SourceDir: sourceDir,
		Log:       log,
		buckets:   map[string]*bucket{},
	}
}

// ProcessFile reads one file's leading comment and records it. Files without
// any license text are only counted, never written. The path may be absolute
// or relative to the source directory.
func (u *Updater) ProcessFile(path string) error {
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(u.SourceDir, abs)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	rel := u.relToSource(abs)

	header := headerComment(string(data))
	key := normalizeLicense(header)
	if key == "" {
		u.missing = append(u.missing, rel)
		return nil
	}

	b := u.buckets[key]
	if b == nil {
		b = &bucket{text: header}
		u.buckets[key] = b
	}
	b.files = append(b.files, rel)
	return nil
}

// Stats logs how many files and distinct license texts were collected and
// warns about every file without a license header.
func (u *Updater) Stats() {
	files := 0
	for _, b := range u.buckets {
		files += len(b.files)
	}
	u.Log.Infof("credits: %d files across %d distinct license texts", files, len(u.buckets))

	sort.Strings(u.missing)
	for _, f := range u.missing {
		u.Log.Warnf("no license header found in %s", f)
	}
}

// WriteCredits writes the notice file into the source directory. Sections
// are ordered by their first file, files within a section sorted.
func (u *Updater) WriteCredits() error {
	buckets := make([]*bucket, 0, len(u.buckets))
	for _, b := range u.buckets {
		sort.Strings(b.files)
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].files[0] < buckets[j].files[0] })

	var out strings.Builder
	out.WriteString(banner)
	for _, b := range buckets {
		out.WriteString(separator)
		for _, f := range b.files {
			out.WriteString(filepath.ToSlash(f))
			out.WriteByte('\n')
		}
		out.WriteByte('\n')
		out.WriteString(b.text)
		out.WriteString("\n\n")
	}

	path := filepath.Join(u.SourceDir, CreditsFile)
	return os.WriteFile(path, []byte(out.String()), 0644)
}

// headerComment extracts the leading comment of a source file. C block
// comments, // line comments and ; assembly comments all count. The header
// ends at the first line that is neither blank nor a comment.
func headerComment(content string) string {
	var out []string
	inBlock := false
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if inBlock {
			closed := false
			if i := strings.Index(line, "*/"); i >= 0 {
				line = line[:i]
				closed = true
			}
			line = strings.TrimPrefix(line, "*")
			out = append(out, strings.TrimSpace(line))
			if closed {
				inBlock = false
			}
			continue
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "/*"):
			rest := strings.TrimPrefix(line, "/*")
			if i := strings.Index(rest, "*/"); i >= 0 {
				out = append(out, strings.TrimSpace(rest[:i]))
			} else {
				out = append(out, strings.TrimSpace(rest))
				inBlock = true
			}
		case strings.HasPrefix(line, "//"):
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "//")))
		case strings.HasPrefix(line, ";"):
			out = append(out, strings.TrimSpace(strings.TrimLeft(line, ";")))
		default:
			return strings.TrimSpace(strings.Join(out, "\n"))
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// normalizeLicense reduces a header to its license terms: attribution lines
// go, whitespace collapses. Headers with no terms left normalize to "".
func normalizeLicense(text string) string {
	var keep []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || reAttribution.MatchString(line) {
			continue
		}
		keep = append(keep, strings.Join(strings.Fields(line), " "))
	}
	return strings.Join(keep, "\n")
}

func (u *Updater) relToSource(path string) string {
	abs, err := filepath.Abs(u.SourceDir)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(abs, path)
	if err != nil {
		return path
	}
	return rel
}
