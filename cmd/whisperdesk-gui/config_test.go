package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/settings"
)

func newTestStore(t *testing.T) *settings.FileStore {
	t.Helper()
	s, err := settings.NewFileStore(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestParseScaling(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{"integer", "2", 2, false},
		{"fraction", "1.5", 1.5, false},
		{"whitespace", "  0.5 ", 0.5, false},
		{"upper bound", "3", 3, false},
		{"too small", "0.4", 0, true},
		{"too large", "3.1", 0, true},
		{"not a number", "big", 0, true},
		{"empty", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseScaling(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseScaling(%q) = %v, want error", tt.raw, got)
				}
				if !apperrors.IsKind(err, apperrors.KindInvalidInput) {
					t.Errorf("error kind = %v, want invalid_input", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseScaling(%q): %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("parseScaling(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfig(newTestStore(t))

	if cfg.Engine != engineLocal {
		t.Errorf("Engine = %q, want %q", cfg.Engine, engineLocal)
	}
	if cfg.Language != "" {
		t.Errorf("Language = %q, want autodetect", cfg.Language)
	}
	if cfg.Scaling != defaultScaling {
		t.Errorf("Scaling = %v, want %v", cfg.Scaling, defaultScaling)
	}
	if !cfg.Autoscroll {
		t.Error("Autoscroll should default to true")
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	prefs := newTestStore(t)
	prefs.SetString("Language", "klingon")
	prefs.SetString("Engine", "cloudx")
	prefs.SetFloat("Scaling", 9)

	cfg := loadConfig(prefs)

	if cfg.Language != "" {
		t.Errorf("unknown language kept: %q", cfg.Language)
	}
	if cfg.Engine != engineLocal {
		t.Errorf("unknown engine kept: %q", cfg.Engine)
	}
	if cfg.Scaling != defaultScaling {
		t.Errorf("out-of-range scaling kept: %v", cfg.Scaling)
	}
	// The reset scaling is written back so the bad value does not return
	// next launch.
	if got := prefs.FloatWithFallback("Scaling", 0); got != defaultScaling {
		t.Errorf("persisted scaling = %v, want %v", got, defaultScaling)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	prefs := newTestStore(t)
	cfg := AppConfig{
		Language:           "finnish",
		Engine:             engineAPI,
		ModelPath:          "/models/ggml-base.bin",
		OutputDir:          "/out",
		TranslateToEnglish: true,
		UseLanguageCode:    true,
		RememberOutputDir:  true,
		Scaling:            1.5,
		Autoscroll:         true,
	}
	saveConfig(prefs, cfg)

	if got := loadConfig(prefs); got != cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestSaveConfigForgetsOutputDirWhenAsked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	prefs, err := settings.NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	cfg := loadConfig(prefs)
	cfg.OutputDir = "/out"
	cfg.RememberOutputDir = true
	saveConfig(prefs, cfg)

	cfg.RememberOutputDir = false
	saveConfig(prefs, cfg)

	if got := loadConfig(prefs); got.OutputDir != "" {
		t.Errorf("OutputDir = %q, want empty when not remembered", got.OutputDir)
	}
	// The key is deleted outright, not persisted as an empty string.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(raw), `"OutputDir"`) {
		t.Errorf("settings file still carries the output dir key:\n%s", raw)
	}
}
