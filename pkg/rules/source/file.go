package source

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileSource serves rule files from a directory on disk. Rule paths are
// extension-less ids: "kyc/pan_eligibility_v1" maps to
// kyc/pan_eligibility_v1.json under the root. Anything resolving outside the
// root is rejected before touching the filesystem.
type FileSource struct {
	root   string
	logger *slog.Logger
}

// NewFileSource creates a file-based rule source rooted at dir.
func NewFileSource(dir string, logger *slog.Logger) (*FileSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve rules dir %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat rules dir %q: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("rules path %q is not a directory", abs)
	}

	return &FileSource{root: abs, logger: logger}, nil
}

// Root returns the absolute rules directory. The file watcher needs it to
// know what to watch.
func (s *FileSource) Root() string {
	return s.root
}

// Read returns the content of the rule at path.
func (s *FileSource) Read(_ context.Context, path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read rule %q: %w", path, err)
	}
	return data, nil
}

// List walks the root and returns the rule id of every .json file, sorted.
// Ids carry no extension, so each one reads back through Read unchanged.
func (s *FileSource) List(_ context.Context) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(full string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(full) != ".json" {
			return nil
		}
		rel, err := filepath.Rel(s.root, full)
		if err != nil {
			return err
		}
		paths = append(paths, strings.TrimSuffix(filepath.ToSlash(rel), ".json"))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk rules dir %q: %w", s.root, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Write stores content at path, creating parent directories as needed. The
// file lands via rename so a concurrent reader never sees a half-written
// rule.
func (s *FileSource) Write(_ context.Context, path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create rule dir for %q: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".rule-*.tmp")
	if err != nil {
		return fmt.Errorf("write rule %q: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write rule %q: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write rule %q: %w", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write rule %q: %w", path, err)
	}

	s.logger.Info("rule written", "path", path, "bytes", len(data))
	return nil
}

// Delete removes the rule at path.
func (s *FileSource) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("delete rule %q: %w", path, err)
	}

	s.logger.Info("rule deleted", "path", path)
	return nil
}

// resolve maps a rule id to an absolute file path, rejecting anything that
// would escape the root. An id without an extension gets ".json" appended;
// an explicit extension passes through untouched.
func (s *FileSource) resolve(path string) (string, error) {
	if path == "" || strings.Contains(path, "\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	if filepath.Ext(path) == "" {
		path += ".json"
	}

	full := filepath.Join(s.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q escapes the rules directory", ErrInvalidPath, path)
	}
	return full, nil
}
