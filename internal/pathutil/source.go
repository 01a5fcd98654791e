// Package pathutil confines candidate file access to allowed directories.
// The MCP server uses it so that tool callers can only read candidate files
// the operator has opted into.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RedactPath shortens a path to .../<parent>/<basename> for error messages.
// For example, "/home/user/.textsim/config.yaml" becomes ".../.textsim/config.yaml".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(cleaned))
	if parent == "." || parent == string(filepath.Separator) {
		return filepath.Base(cleaned)
	}
	return ".../" + parent + "/" + filepath.Base(cleaned)
}

// ValidateSource checks that path lies inside one of allowedDirs after
// cleaning and symlink resolution. The file itself need not exist; when it
// does, a symlink is followed to its final target, and a dangling symlink is
// rejected.
func ValidateSource(path string, allowedDirs []string) error {
	switch {
	case path == "":
		return fmt.Errorf("source path rejected: path is empty")
	case len(allowedDirs) == 0:
		return fmt.Errorf("source path rejected: no allowed directories configured")
	case strings.ContainsRune(path, '\x00'):
		return fmt.Errorf("source path rejected: path contains null byte")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("source path rejected: %w", err)
	}
	target, err := resolveTarget(abs)
	if err != nil {
		return fmt.Errorf("source path rejected: %w", err)
	}

	for _, allowed := range allowedDirs {
		allowedAbs, err := filepath.Abs(filepath.Clean(allowed))
		if err != nil {
			continue
		}
		root, err := resolve(allowedAbs)
		if err != nil {
			continue
		}
		if within(target, root) {
			return nil
		}
	}

	return fmt.Errorf("source path rejected: %q is outside allowed directories", RedactPath(abs))
}

// resolveTarget returns the real location abs refers to. An existing entry is
// resolved in full so a file symlink cannot point past the allowed roots.
func resolveTarget(abs string) (string, error) {
	if _, err := os.Lstat(abs); err == nil {
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return "", fmt.Errorf("cannot resolve %s: %w", RedactPath(abs), err)
		}
		return resolved, nil
	}

	dir, err := resolve(filepath.Dir(abs))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}

// resolve evaluates symlinks on the deepest existing ancestor of dir and
// re-appends the missing tail.
func resolve(dir string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(dir); err == nil {
		return resolved, nil
	}

	parent := filepath.Dir(dir)
	if parent == dir {
		return "", fmt.Errorf("cannot resolve %s", RedactPath(dir))
	}
	resolvedParent, err := resolve(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(dir)), nil
}

// within reports whether path equals base or lies below it.
func within(path, base string) bool {
	if path == base {
		return true
	}
	return strings.HasPrefix(path, base+string(os.PathSeparator))
}

// DefaultSourceDirs returns the directories candidate files may be read
// from: root and ~/.textsim.
func DefaultSourceDirs(root string) ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return []string{root, filepath.Join(homeDir, ".textsim")}, nil
}
