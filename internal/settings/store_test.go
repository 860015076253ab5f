package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	s.SetString("language", "english")
	s.SetBool("autoscroll", true)
	s.SetFloat("scaling", 1.5)
	s.SetStringMap("prompt_profiles", map[string]string{"Meeting": "names: Alice, Bob"})

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore reload: %v", err)
	}
	if got := reloaded.String("language"); got != "english" {
		t.Fatalf("String(language) = %q, want %q", got, "english")
	}
	if !reloaded.Bool("autoscroll") {
		t.Fatalf("Bool(autoscroll) = false, want true")
	}
	if got := reloaded.Float("scaling"); got != 1.5 {
		t.Fatalf("Float(scaling) = %v, want 1.5", got)
	}
	profiles := reloaded.StringMap("prompt_profiles")
	if profiles["Meeting"] != "names: Alice, Bob" {
		t.Fatalf("StringMap(prompt_profiles) = %v", profiles)
	}
}

func TestFileStore_Fallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if got := s.StringWithFallback("missing", "default"); got != "default" {
		t.Fatalf("StringWithFallback = %q, want %q", got, "default")
	}
	if got := s.FloatWithFallback("missing", 2.5); got != 2.5 {
		t.Fatalf("FloatWithFallback = %v, want 2.5", got)
	}
	if !s.BoolWithFallback("missing", true) {
		t.Fatalf("BoolWithFallback = false, want true")
	}

	// Type mismatch falls back rather than panicking.
	s.SetString("scaling", "not a number")
	if got := s.FloatWithFallback("scaling", 1.0); got != 1.0 {
		t.Fatalf("FloatWithFallback on mismatched type = %v, want 1.0", got)
	}
}

func TestFileStore_RemoveValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s.SetString("api_key_set", "yes")
	s.RemoveValue("api_key_set")

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore reload: %v", err)
	}
	if got := reloaded.StringWithFallback("api_key_set", "gone"); got != "gone" {
		t.Fatalf("expected removed key to be absent, got %q", got)
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "settings.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if got := s.String("anything"); got != "" {
		t.Fatalf("expected empty store, got %q", got)
	}

	// First write creates the parent directory.
	s.SetString("language", "japanese")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file to exist after write: %v", err)
	}
}

func TestFileStore_CorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatalf("expected error for corrupt settings file")
	}
}

func TestFileStore_StringMapIsCopied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	in := map[string]string{"A": "1"}
	s.SetStringMap("m", in)
	in["A"] = "mutated"

	out := s.StringMap("m")
	if out["A"] != "1" {
		t.Fatalf("stored map aliased caller's map: %v", out)
	}
	out["A"] = "mutated again"
	if s.StringMap("m")["A"] != "1" {
		t.Fatalf("returned map aliased stored map")
	}
}
