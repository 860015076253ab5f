//go:build windows

package files

import "golang.org/x/sys/windows"

// Junctions and other reparse points do not show up as os.ModeSymlink,
// so they need their own attribute check.
func isReparsePoint(path string) (bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return false, err
	}
	return attrs&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0, nil
}
