// Package scanner discovers which source files each build configuration
// compiles by matching the object files of finished ffmpeg builds back
// against the source tree.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ffbuild/gngen/internal/config"
	"github.com/ffbuild/gngen/internal/logging"
	"github.com/ffbuild/gngen/internal/model"
	"github.com/ffbuild/gngen/internal/support"
)

// Scanner turns a source tree plus a build root into one source set per
// build configuration.
type Scanner struct {
	// SourceDir is the ffmpeg source tree.
	SourceDir string

	// BuildDir is the root holding one build.<arch>.<platform>/<target>
	// directory per configuration that was built.
	BuildDir string

	// ExcludedObjects drops object files whose sources must not appear in
	// the output, typically duplicate symbols or binary size trims.
	ExcludedObjects *config.PatternList

	Log *logging.Logger
}

// New creates a Scanner.
func New(sourceDir, buildDir string, excluded *config.PatternList, log *logging.Logger) *Scanner {
	return &Scanner{
		SourceDir:       sourceDir,
		BuildDir:        buildDir,
		ExcludedObjects: excluded,
		Log:             log,
	}
}

// Result carries everything the later stages need: the full source listing,
// the object to source mapping derived from it, and one source set per build
// configuration found under the build root.
type Result struct {
	Sources        []string
	ObjectToSource map[string]string
	Sets           []*model.SourceSet
}

// Scan walks the support matrix and builds a source set for every
// configuration with a build directory. Returns an error wrapping
// ErrNoBuildConfigs when not a single configuration was built.
func (s *Scanner) Scan() (*Result, error) {
	sources, err := s.SourceFiles()
	if err != nil {
		return nil, err
	}
	mapping := ObjectToSourceMapping(sources)

	var sets []*model.SourceSet
	for _, arch := range support.Architectures {
		for _, target := range support.Targets {
			for _, platform := range support.Platforms {
				name := "build." + arch + "." + platform
				dir := filepath.Join(s.BuildDir, name, target)
				if info, err := os.Stat(dir); err != nil || !info.IsDir() {
					continue
				}
				s.Log.Debugf("processing build directory %s/%s", name, target)

				objects, err := s.ObjectFiles(dir)
				if err != nil {
					return nil, err
				}
				built, err := SourcesForObjects(mapping, objects)
				if err != nil {
					return nil, fmt.Errorf("in %s: %w", dir, err)
				}
				cond := model.Cond(arch, target, platform)
				sets = append(sets, model.NewSourceSet(built, []model.Condition{cond}))
			}
		}
	}
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w under %s, are the source and build directories correct?",
			ErrNoBuildConfigs, s.BuildDir)
	}

	return &Result{Sources: sources, ObjectToSource: mapping, Sets: sets}, nil
}

// SourceFiles lists every buildable source file under the source tree as a
// path relative to it, skipping the .git directory.
func (s *Scanner) SourceFiles() ([]string, error) {
	var sources []string
	err := filepath.WalkDir(s.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !model.IsSourceFile(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.SourceDir, path)
		if err != nil {
			return err
		}
		sources = append(sources, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk source tree %s: %w", s.SourceDir, err)
	}
	return sources, nil
}

// ObjectFiles lists every object file under one build directory as a path
// relative to it, minus the excluded ones.
func (s *Scanner) ObjectFiles(dir string) ([]string, error) {
	var objects []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".o" {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if s.ExcludedObjects.Match(rel) {
			s.Log.Debugf("dropping excluded object %s", rel)
			return nil
		}
		objects = append(objects, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk build directory %s: %w", dir, err)
	}
	return objects, nil
}

// ObjectToSourceMapping maps the object file path each source file compiles
// to back to the source file.
func ObjectToSourceMapping(sources []string) map[string]string {
	mapping := make(map[string]string, len(sources))
	for _, name := range sources {
		ext := filepath.Ext(name)
		mapping[name[:len(name)-len(ext)]+".o"] = name
	}
	return mapping
}

// SourcesForObjects resolves object files to their sources through the
// mapping. A miss means the source and build trees disagree and fails the
// whole run rather than silently dropping a file.
func SourcesForObjects(mapping map[string]string, objects []string) ([]string, error) {
	sources := make([]string, 0, len(objects))
	for _, object := range objects {
		src, ok := mapping[object]
		if !ok {
			return nil, &LookupError{Object: object}
		}
		sources = append(sources, src)
	}
	return sources, nil
}
