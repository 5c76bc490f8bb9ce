package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shry/gitcha-action/internal/manifest"
)

// ErrorPolicy controls what happens when a single file cannot be loaded.
type ErrorPolicy int

const (
	// Propagate aborts the aggregation on the first loader failure.
	Propagate ErrorPolicy = iota
	// CollectAndContinue records the failure as a skip diagnostic and keeps going.
	CollectAndContinue
)

// Image formats are never loaded, regardless of the hidden-file settings.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".tiff", ".bmp", ".gif"}

// FileLoader reads one file into text. The default reads the raw bytes;
// callers may plug in format-aware loaders.
type FileLoader func(path string) (string, error)

// SkipDiagnostic records a file that was skipped during aggregation and why.
type SkipDiagnostic struct {
	Path   string
	Reason string
}

// Loader enumerates the fixed, ordered set of CV sources and loads every
// matching file: the root README first, then the public, certificates,
// work-history and projects folders. Result ordering is stable: source
// category order, then sorted enumeration order within a category.
type Loader struct {
	// Glob filters file names inside the configured folders. Empty means all files.
	Glob string
	// Recursive scans folders recursively.
	Recursive bool
	// LoadHidden includes files under hidden path segments.
	LoadHidden bool
	// OnError selects the partial-failure policy for unreadable files.
	OnError ErrorPolicy
	// Load reads a single file. Defaults to reading the raw file content.
	Load FileLoader
}

func readFileLoader(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadAll aggregates the CV documents of the repository. Skipped files are
// returned alongside the documents so partial failures stay observable.
func (l *Loader) LoadAll(repoPath string, folders *manifest.Folders) ([]Document, []SkipDiagnostic, error) {
	if folders == nil {
		return nil, nil, fmt.Errorf("no folder configuration provided")
	}

	load := l.Load
	if load == nil {
		load = readFileLoader
	}

	glob := l.Glob
	if glob == "" {
		glob = "*"
	}

	sources := []struct {
		name   string
		folder string
	}{
		{"readme", ""},
		{"public", folders.Public},
		{"certificates", folders.Certs},
		{"work_history", folders.WorkHistory},
		{"projects", folders.Projects},
	}

	var docs []Document
	var skipped []SkipDiagnostic

	for _, src := range sources {
		var base string
		var files []string
		var err error

		if src.name == "readme" {
			base = repoPath
			files = []string{filepath.Join(repoPath, "README.md")}
		} else {
			if src.folder == "" {
				continue
			}
			base = manifest.NormalizeFolder(repoPath, src.folder)
			files, err = l.enumerate(base, glob)
			if err != nil {
				return nil, nil, fmt.Errorf("scanning %s folder: %w", src.name, err)
			}
		}

		for _, file := range files {
			info, err := os.Stat(file)
			if err != nil || info.IsDir() {
				continue
			}

			if isImage(file) {
				skipped = append(skipped, SkipDiagnostic{Path: file, Reason: "image file"})
				continue
			}

			if !l.LoadHidden && isHidden(base, file) {
				skipped = append(skipped, SkipDiagnostic{Path: file, Reason: "hidden path"})
				continue
			}

			content, err := load(file)
			if err != nil {
				if l.OnError == CollectAndContinue {
					skipped = append(skipped, SkipDiagnostic{Path: file, Reason: err.Error()})
					continue
				}
				return nil, skipped, fmt.Errorf("loading %s: %w", file, err)
			}

			docs = append(docs, Document{Content: content, Source: file})
		}
	}

	return docs, skipped, nil
}

// enumerate lists files under dir matching the glob, sorted for stable
// ordering. A missing folder yields no files rather than an error.
func (l *Loader) enumerate(dir, glob string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	var files []string

	if !l.Recursive {
		matches, err := filepath.Glob(filepath.Join(dir, glob))
		if err != nil {
			return nil, err
		}
		files = matches
	} else {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ok, err := filepath.Match(glob, d.Name())
			if err != nil {
				return err
			}
			if ok {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

func isImage(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isHidden reports whether any path segment below base starts with a dot.
func isHidden(base, path string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
