// Package walker discovers the files a scan will inspect: it walks a
// root directory honoring .gitignore and configured exclude globs, keeps
// symlinks from escaping the root, classifies each surviving file's
// language, and filters out anything over the configured size ceiling.
package walker

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/corvid-labs/antislop/pkg/langdetect"
	"github.com/corvid-labs/antislop/pkg/models"
)

// Options controls which files Walk considers in scope.
type Options struct {
	// Exclude holds extra doublestar glob patterns, evaluated against the
	// path relative to root, independent of .gitignore.
	Exclude []string
	// RespectGitignore, when true, additionally excludes anything
	// .gitignore would exclude. Ignore files are read from the repository
	// root found by walking up from root, or from root itself when no
	// repository is found.
	RespectGitignore bool
	// MaxFileSizeKB skips files larger than this many kilobytes; 0 means
	// no limit.
	MaxFileSizeKB int64
	// Extensions, when non-empty, restricts the walk to files whose
	// extension (including the leading dot, e.g. ".go") appears in this
	// allow-list. An empty list means every recognized language is in
	// scope.
	Extensions []string
}

// Walker discovers files under a root directory.
type Walker struct {
	opts     Options
	matchers []gitignore.Matcher
}

// New creates a Walker with the given options.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// findGitRoot walks up from start looking for a .git directory, returning
// "" if none is found.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (w *Walker) loadGitignore(root string) {
	if !w.opts.RespectGitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		gitRoot = root
	}
	fs := osfs.New(gitRoot)
	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	w.matchers = append(w.matchers, gitignore.NewMatcher(patterns))
}

func (w *Walker) gitignoreExcluded(path string, isDir bool) bool {
	if len(w.matchers) == 0 {
		return false
	}
	parts := strings.Split(path, string(filepath.Separator))
	for _, m := range w.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

func (w *Walker) globExcluded(relPath string) bool {
	for _, pattern := range w.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		// Also match against the base name, so "node_modules" excludes
		// any directory by that name regardless of depth.
		if ok, _ := doublestar.Match(pattern, filepath.Base(relPath)); ok {
			return true
		}
	}
	return false
}

func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	if absPath == root {
		return true
	}
	return strings.HasPrefix(absPath, root+string(filepath.Separator))
}

func (w *Walker) extensionAllowed(path string) bool {
	if len(w.opts.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, allowed := range w.opts.Extensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}

// Walk recursively discovers files under root in scope for a scan:
// gitignored and glob-excluded paths are skipped, symlinks that resolve
// outside root are skipped, and files over the size ceiling are dropped,
// as are files with no recognized language unless an Extensions
// allow-list admitted them (those are left to regex-fallback scanning).
func (w *Walker) Walk(root string) ([]models.FileWorkItem, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	w.loadGitignore(root)

	items := make([]models.FileWorkItem, 0, 1024)
	maxBytes := w.opts.MaxFileSizeKB * 1024

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, _ := filepath.Rel(root, path)
		if relPath == "." {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if w.gitignoreExcluded(relPath, true) || w.globExcluded(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if w.gitignoreExcluded(relPath, false) || w.globExcluded(relPath) {
			return nil
		}
		if !w.extensionAllowed(path) {
			return nil
		}

		lang := langdetect.ClassifyFile(path)
		if lang == models.LangUnknown && len(w.opts.Extensions) == 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if maxBytes > 0 && info.Size() > maxBytes {
			return nil
		}

		items = append(items, models.FileWorkItem{
			AbsolutePath:     path,
			DetectedLanguage: lang,
			SizeBytes:        info.Size(),
		})
		return nil
	})

	return items, walkErr
}
