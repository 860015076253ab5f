// Package engine provides the transcription backends. Both the local
// whisper.cpp pipeline and the OpenAI API engine satisfy Engine, so the
// job worker does not care which one is configured.
package engine

import "context"

// Params selects how a file is transcribed.
type Params struct {
	// Language is the canonical lowercase language name ("english",
	// "japanese", ...). Empty means autodetect.
	Language string
	// Model is the whisper model path (local engine) or API model name.
	Model string
	// TranslateToEnglish requests translation instead of transcription.
	TranslateToEnglish bool
	// UseLanguageCode switches the output suffix from the language name
	// to its ISO code: video.en.txt instead of video.english.txt.
	UseLanguageCode bool
	// InitialPrompt seeds the decoder with vocabulary or context.
	InitialPrompt string
}

// Engine transcribes one media file and returns the transcript path.
type Engine interface {
	Transcribe(ctx context.Context, inputPath, outputDir string, p Params) (string, error)
}
