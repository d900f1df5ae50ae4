package projects

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/neilberkman/cchistory/pkg/ccsessions"
)

// SessionExt is the extension of session log files
const SessionExt = ".jsonl"

// Lister enumerates candidate session files. The project argument is an
// optional project path or partial directory name; "" means every project.
type Lister interface {
	SessionFiles(project string) ([]string, error)
}

// DirLister lists sessions under a Claude projects root
// (~/.claude/projects/<encoded-project>/<session>.jsonl)
type DirLister struct {
	Root   string
	Logger *zap.Logger
}

// NewDirLister creates a lister rooted at root
func NewDirLister(root string, logger *zap.Logger) *DirLister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirLister{Root: root, Logger: logger}
}

// ProjectDirs returns the project directories admitted by the filter, in name order.
// A missing root yields no directories and no error.
//
// With a filter, an exact match on the encoded path wins, then the first directory
// whose name contains the encoded path, then the first whose name contains the
// filter itself with "/" mapped to "-" (so "secondBrain" finds
// "-Users-me-Projects-nuxt-secondBrain").
func (l *DirLister) ProjectDirs(project string) ([]string, error) {
	entries, err := os.ReadDir(l.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read projects directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}

	if project == "" {
		dirs := make([]string, 0, len(names))
		for _, name := range names {
			dirs = append(dirs, filepath.Join(l.Root, name))
		}
		return dirs, nil
	}

	encoded := ccsessions.EncodeProjectPath(project)
	for _, name := range names {
		if name == encoded {
			return []string{filepath.Join(l.Root, name)}, nil
		}
	}
	for _, name := range names {
		if strings.Contains(name, encoded) {
			return []string{filepath.Join(l.Root, name)}, nil
		}
	}

	needle := strings.ReplaceAll(strings.Trim(project, "/"), "/", "-")
	if needle != "" {
		for _, name := range names {
			if strings.Contains(name, needle) {
				return []string{filepath.Join(l.Root, name)}, nil
			}
		}
	}

	return nil, nil
}

// SessionFiles returns every non-agent session file of the admitted projects,
// ordered by project directory name then file name. Unreadable project
// directories are skipped with a warning.
func (l *DirLister) SessionFiles(project string) ([]string, error) {
	dirs, err := l.ProjectDirs(project)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			l.Logger.Warn("skipping unreadable project directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || filepath.Ext(name) != SessionExt || ccsessions.IsAgentFile(name) {
				continue
			}
			files = append(files, filepath.Join(dir, name))
		}
	}

	return files, nil
}

// NormalizeProject expands a leading "~" and makes path-like filters absolute.
// Bare names without a separator are returned unchanged so they can match
// directory names partially.
func NormalizeProject(project string) (string, error) {
	if project == "" {
		return "", nil
	}

	if project == "~" || strings.HasPrefix(project, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		project = filepath.Join(home, strings.TrimPrefix(project, "~"))
	}

	if !strings.ContainsRune(project, filepath.Separator) && !strings.HasPrefix(project, ".") {
		return project, nil
	}

	abs, err := filepath.Abs(project)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return abs, nil
}
