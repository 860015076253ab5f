package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/language"
	"github.com/mkoskela/whisperdesk/internal/logger"
	"github.com/mkoskela/whisperdesk/internal/settings"
)

const (
	engineLocal = "local"
	engineAPI   = "api"

	minScaling     = 0.5
	maxScaling     = 3.0
	defaultScaling = 1.0
)

type AppConfig struct {
	// Language is the canonical lowercase language name, empty for
	// autodetect.
	Language           string
	Engine             string
	ModelPath          string
	OutputDir          string
	TranslateToEnglish bool
	// UseLanguageCode embeds the ISO code instead of the language name
	// in transcript filenames.
	UseLanguageCode bool
	// RememberOutputDir controls whether OutputDir survives a restart.
	RememberOutputDir bool
	Scaling           float64
	Autoscroll        bool
}

func settingsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".whisperdesk", "settings.json")
}

func loadConfig(prefs settings.Store) AppConfig {
	cfg := AppConfig{
		Language:           prefs.String("Language"),
		Engine:             prefs.StringWithFallback("Engine", engineLocal),
		ModelPath:          prefs.String("ModelPath"),
		OutputDir:          prefs.String("OutputDir"),
		TranslateToEnglish: prefs.Bool("TranslateToEnglish"),
		UseLanguageCode:    prefs.Bool("UseLanguageCode"),
		RememberOutputDir:  prefs.BoolWithFallback("RememberOutputDir", true),
		Scaling:            prefs.FloatWithFallback("Scaling", defaultScaling),
		Autoscroll:         prefs.BoolWithFallback("Autoscroll", true),
	}

	if cfg.Language != "" {
		if _, ok := language.FromName(cfg.Language); !ok {
			logger.Warn("Ignoring unknown saved language", "language", cfg.Language)
			cfg.Language = ""
		}
	}
	if cfg.Engine != engineLocal && cfg.Engine != engineAPI {
		logger.Warn("Ignoring unknown saved engine", "engine", cfg.Engine)
		cfg.Engine = engineLocal
	}
	if cfg.Scaling < minScaling || cfg.Scaling > maxScaling {
		logger.Warn("Scaling out of range, using default", "requested", cfg.Scaling, "default", defaultScaling)
		cfg.Scaling = defaultScaling
		prefs.SetFloat("Scaling", cfg.Scaling)
	}
	return cfg
}

func saveConfig(prefs settings.Store, cfg AppConfig) {
	prefs.SetString("Language", cfg.Language)
	prefs.SetString("Engine", cfg.Engine)
	prefs.SetString("ModelPath", cfg.ModelPath)
	if cfg.RememberOutputDir {
		prefs.SetString("OutputDir", cfg.OutputDir)
	} else {
		prefs.RemoveValue("OutputDir")
	}
	prefs.SetBool("TranslateToEnglish", cfg.TranslateToEnglish)
	prefs.SetBool("UseLanguageCode", cfg.UseLanguageCode)
	prefs.SetBool("RememberOutputDir", cfg.RememberOutputDir)
	prefs.SetFloat("Scaling", cfg.Scaling)
	prefs.SetBool("Autoscroll", cfg.Autoscroll)
}

// parseScaling validates user input for the UI scaling factor.
func parseScaling(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("Scaling must be a number")
	}
	if v < minScaling || v > maxScaling {
		return 0, apperrors.InvalidInput("Scaling must be between 0.5 and 3")
	}
	return v, nil
}
