package engine

import (
	"path/filepath"
	"strings"

	"github.com/mkoskela/whisperdesk/internal/language"
)

// OutputFileName derives the transcript filename for an input file.
// The transcript language is embedded before the extension, either as a
// name or as an ISO code: video.mp4 -> video.english.txt or video.en.txt.
// Translation always yields English. With autodetection and no
// translation the suffix is omitted.
func OutputFileName(inputPath string, p Params) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" || stem == "." {
		stem = "transcript"
	}

	langName := p.Language
	if p.TranslateToEnglish {
		langName = "english"
	}
	if langName == "" {
		return stem + ".txt"
	}

	suffix := langName
	if p.UseLanguageCode {
		if lang, ok := language.FromName(langName); ok {
			suffix = lang.Code
		}
	}
	return stem + "." + suffix + ".txt"
}
