package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafePath_FreePathUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "video.english.txt")
	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath: %v", err)
	}
	if changed || got != path {
		t.Fatalf("SafePath = (%q, %v), want the original path unchanged", got, changed)
	}
}

func TestSafePath_CollisionGetsNumberedSuffix(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "video.english.txt")
	if err := os.WriteFile(path, []byte("earlier transcript"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath: %v", err)
	}
	if !changed {
		t.Fatalf("expected a changed path")
	}
	if want := filepath.Join(tmp, "video.english_1.txt"); got != want {
		t.Fatalf("SafePath = %q, want %q", got, want)
	}
}

func TestSafePath_ExhaustedNumbersFallBackToUnique(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "video.txt")
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	for i := 1; i <= 9; i++ {
		taken := filepath.Join(tmp, "video_"+string(rune('0'+i))+".txt")
		if err := os.WriteFile(taken, []byte("x"), 0600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	got, changed, err := SafePath(path)
	if err != nil {
		t.Fatalf("SafePath: %v", err)
	}
	if !changed {
		t.Fatalf("expected a changed path")
	}
	if !strings.HasPrefix(filepath.Base(got), "video_") || !strings.HasSuffix(got, ".txt") {
		t.Fatalf("SafePath = %q, want a video_<unique>.txt name", got)
	}
	if _, err := os.Stat(got); !os.IsNotExist(err) {
		t.Fatalf("returned path %q already exists", got)
	}
}

func TestSafePath_EmptyPath(t *testing.T) {
	if _, _, err := SafePath(""); err == nil {
		t.Fatalf("expected an error for the empty path")
	}
}
