//go:build !windows

package files

import "os"

// POSIX rename replaces the destination atomically.
func renameAtomic(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
