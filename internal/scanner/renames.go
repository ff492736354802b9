package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ffbuild/gngen/internal/logging"
	"github.com/ffbuild/gngen/internal/model"
)

// RenamePrefix starts the basename of every generated forwarding file.
const RenamePrefix = "autorename"

// Forwarding file body. Including the original keeps the two files in
// lockstep.
const renameContent = `// File automatically generated. See crbug.com/495833.
%sinclude "%s"
`

var reRenamedPath = regexp.MustCompile(RenamePrefix + `_.+`)

// IsRenamedPath reports whether the path belongs to a generated forwarding
// file.
func IsRenamedPath(path string) bool {
	return reRenamedPath.MatchString(path)
}

// RenameFunc writes one forwarding file. Tests substitute their own.
type RenameFunc func(oldPath, newPath, content string) error

// WriteRenameFile returns the production RenameFunc writing forwarding files
// into the source tree.
func WriteRenameFile(sourceDir string) RenameFunc {
	return func(oldPath, newPath, content string) error {
		return os.WriteFile(filepath.Join(sourceDir, newPath), []byte(content), 0644)
	}
}

// FixBasenameCollisions gives every object file in the output a unique
// basename. Mac libtool warns about duplicate object basenames within one
// static library, so each later file of a colliding pair moves behind a
// forwarding file named after its full path, kept in the same folder.
// Basenames are claimed across all sets. When the upstream tree still holds
// a forwarding file this run no longer needs, a warning asks for its removal.
func FixBasenameCollisions(sets []*model.SourceSet, allSources []string, write RenameFunc, log *logging.Logger) error {
	type rename struct {
		oldPath, newPath string
	}

	knownBasenames := map[string]bool{}
	allRenames := map[string]bool{}

	for _, set := range sets {
		var renames []rename

		for _, sourcePath := range set.SortedSources() {
			folder, filename := filepath.Split(sourcePath)
			basename := strings.TrimSuffix(filename, filepath.Ext(filename))

			// Sets must not contain forwarding files before this step.
			if strings.Contains(basename, RenamePrefix) {
				return fmt.Errorf("found unexpected renamed file in source set: %s", sourcePath)
			}

			if !knownBasenames[basename] {
				knownBasenames[basename] = true
				continue
			}

			parts := strings.Split(sourcePath, string(os.PathSeparator))
			newFilename := RenamePrefix + "_" + strings.Join(parts, "_")
			newPath := newFilename
			if folder != "" {
				newPath = filepath.Join(folder, newFilename)
			}
			renames = append(renames, rename{sourcePath, newPath})
		}

		for _, r := range renames {
			log.Infof("fixing basename collision: %s -> %s", r.oldPath, r.newPath)

			prefix := "#"
			if model.IsYasmFile(r.oldPath) {
				prefix = "%"
			}
			_, oldFilename := filepath.Split(r.oldPath)
			content := fmt.Sprintf(renameContent, prefix, oldFilename)
			if err := write(r.oldPath, r.newPath, content); err != nil {
				return fmt.Errorf("failed to write forwarding file %s: %w", r.newPath, err)
			}

			delete(set.Sources, r.oldPath)
			set.Sources[r.newPath] = true
			allRenames[r.newPath] = true
		}
	}

	for _, sourcePath := range allSources {
		if strings.Contains(sourcePath, RenamePrefix) && !allRenames[sourcePath] {
			log.Warnf("%s no longer collides and should be deleted", sourcePath)
		}
	}
	return nil
}
