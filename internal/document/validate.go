package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrOutsideRoot is returned when a path escapes the configured data
	// root, whether via ".." components or symlinks.
	ErrOutsideRoot = errors.New("path resolves outside data root")

	// ErrNotRegularFile is returned when a path exists but is not a
	// regular file.
	ErrNotRegularFile = errors.New("not a regular file")
)

// ResolveWithin resolves path (symlinks included) and verifies it is a
// regular file inside root. Returns the resolved absolute path.
func ResolveWithin(root, path string) (string, error) {
	if root == "" {
		return "", fmt.Errorf("data root cannot be empty")
	}
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	resolvedRoot, err := resolveAbs(root)
	if err != nil {
		return "", fmt.Errorf("resolving data root: %w", err)
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(resolvedRoot, path)
	}
	resolved, err := resolveAbs(path)
	if err != nil {
		return "", err
	}

	if resolved != resolvedRoot && !strings.HasPrefix(resolved, resolvedRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", resolved, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", ErrNotRegularFile, resolved)
	}

	return resolved, nil
}

// resolveAbs returns the absolute, symlink-resolved form of path.
func resolveAbs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return resolved, nil
}
