//go:build windows

package files

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// os.Rename cannot replace an existing file on Windows, so the settings
// store's rename-over-old step goes through MoveFileEx.
func renameAtomic(oldPath, newPath string) error {
	src, err := windows.UTF16PtrFromString(oldPath)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	dst, err := windows.UTF16PtrFromString(newPath)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	return windows.MoveFileEx(src, dst, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}
