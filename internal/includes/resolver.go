// Package includes walks the #include graph of the built sources. The walk is
// greedy: it cannot see compile time defines, so every mentioned include
// counts, whether or not the preprocessor would keep it.
package includes

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/schollz/progressbar/v3"

	"github.com/ffbuild/gngen/internal/config"
	"github.com/ffbuild/gngen/internal/logging"
)

// Matches lines of the form #include "some/file.h". Only the quoted form
// takes part in resolution.
var reQuotedInclude = regexp.MustCompile(`#\s*include\s+"([^"]+)"`)

// Matches include lines that are neither quoted nor bracketed, usually macro
// tricks worth a human look.
var reExoticInclude = regexp.MustCompile(`#\s*include\s+[^"<\s].+`)

// ResolutionError reports an include that exists in no search location and is
// not listed as ignorable.
type ResolutionError struct {
	Include string
	File    string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to find %s included by %s", e.Include, e.File)
}

// Resolver accumulates the transitive include closure of seed files.
// Includes resolve against the directory of the including file first and the
// source directory second.
type Resolver struct {
	SourceDir string
	Ignored   *config.PatternList
	Log       *logging.Logger
	Bar       *progressbar.ProgressBar
}

// Closure returns the sorted absolute paths of the seeds and everything they
// transitively include. Seeds may be relative to the source directory.
func (r *Resolver) Closure(seeds []string) ([]string, error) {
	visited := map[string]bool{}
	for _, seed := range seeds {
		if err := r.resolve(seed, visited); err != nil {
			return nil, err
		}
		if r.Bar != nil {
			r.Bar.Add(1)
		}
	}

	out := make([]string, 0, len(visited))
	for path := range visited {
		out = append(out, path)
	}
	sort.Strings(out)
	return out, nil
}

func (r *Resolver) resolve(seed string, visited map[string]bool) error {
	start, err := r.absolute(seed)
	if err != nil {
		return err
	}

	stack := []string{start}
	for len(stack) > 0 {
		file := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[file] {
			continue
		}
		visited[file] = true

		refs, err := r.scanFile(file)
		if err != nil {
			return err
		}
		for _, ref := range refs {
			resolved, err := r.resolveRef(ref, file)
			if err != nil {
				return err
			}
			if resolved != "" {
				stack = append(stack, resolved)
			}
		}
	}
	return nil
}

// scanFile returns the quoted include references of a file in order of
// appearance, at most one per line.
func (r *Resolver) scanFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	var refs []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		m := reQuotedInclude.FindStringSubmatch(line)
		if m == nil {
			if reExoticInclude.MatchString(line) {
				r.Log.Warnf("investigate unusual include line in %s: %s", path, line)
			}
			continue
		}
		refs = append(refs, m[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return refs, nil
}

// resolveRef locates one include reference. An empty path with a nil error
// means the reference is unresolved but listed as ignorable.
func (r *Resolver) resolveRef(ref, from string) (string, error) {
	rel := filepath.FromSlash(ref)

	var resolved string
	switch {
	case isFile(filepath.Join(filepath.Dir(from), rel)):
		resolved = filepath.Join(filepath.Dir(from), rel)
	case isFile(filepath.Join(r.SourceDir, rel)):
		resolved = filepath.Join(r.SourceDir, rel)
	case r.Ignored.Match(ref):
		return "", nil
	default:
		return "", &ResolutionError{Include: ref, File: from}
	}

	// The reference resolved even though the ignore list claims it cannot.
	if r.Ignored.Match(ref) {
		r.Log.Warnf("found %s although it is listed as an ignored include, consider removing it from the list", ref)
	}
	return filepath.Abs(resolved)
}

func (r *Resolver) absolute(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.SourceDir, path)
	}
	return filepath.Abs(path)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
