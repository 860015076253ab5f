package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RejectSymlinkPath refuses a write destination when the path itself or
// any existing ancestor directory is a symlink (or, on Windows, a reparse
// point). Transcripts and logs must land where the user pointed, not
// where a link redirects.
func RejectSymlinkPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path is empty")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	for _, prefix := range ancestorPaths(abs) {
		info, err := os.Lstat(prefix)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				// Components below a missing directory cannot be links.
				return nil
			}
			return fmt.Errorf("failed to access path: %w", err)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write to symlink path: %s (symlink detected at %s)", abs, prefix)
		}
		reparse, err := isReparsePoint(prefix)
		if err != nil {
			return fmt.Errorf("failed to check reparse point: %w", err)
		}
		if reparse {
			return fmt.Errorf("refusing to write to symlink path: %s (reparse point detected at %s)", abs, prefix)
		}
	}
	return nil
}

// ancestorPaths expands an absolute path into each successive prefix:
// /a, /a/b, /a/b/c. The volume or root itself is not included.
func ancestorPaths(abs string) []string {
	root := filepath.VolumeName(abs)
	rest := strings.TrimLeft(abs[len(root):], string(os.PathSeparator))
	if root != "" {
		root += string(os.PathSeparator)
	} else if filepath.IsAbs(abs) {
		root = string(os.PathSeparator)
	}
	if rest == "" {
		return nil
	}

	var out []string
	current := root
	for _, part := range strings.Split(rest, string(os.PathSeparator)) {
		if part == "" {
			continue
		}
		current = filepath.Join(current, part)
		out = append(out, current)
	}
	return out
}
