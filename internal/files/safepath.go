package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SafePath picks a path that does not collide with an existing file, so a
// new transcript never overwrites an earlier one. The preferred path is
// returned as-is when free; otherwise numbered variants video_1.txt ..
// video_9.txt are tried, and past those a UUID suffix guarantees
// uniqueness. The bool reports whether the path was changed.
func SafePath(path string) (string, bool, error) {
	if path == "" {
		return "", false, fmt.Errorf("path is empty")
	}

	free, err := pathFree(path)
	if err != nil {
		return "", false, err
	}
	if free {
		return path, false, nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	for i := 1; i <= 9; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		free, err := pathFree(candidate)
		if err != nil {
			return "", false, err
		}
		if free {
			return candidate, true, nil
		}
	}

	return fmt.Sprintf("%s_%s%s", stem, uniqueSuffix(), ext), true, nil
}

func pathFree(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if os.IsNotExist(err) {
		return true, nil
	}
	return false, err
}

func uniqueSuffix() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()[:8]
	}
	return u.String()
}
