package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/files"
	"github.com/mkoskela/whisperdesk/internal/language"
	"github.com/mkoskela/whisperdesk/internal/logger"
	"github.com/mkoskela/whisperdesk/internal/srt"
)

type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}
	return result, nil
}

// Local runs transcription entirely on this machine: ffmpeg converts the
// input to 16 kHz mono PCM, whisper.cpp produces subtitles, and the
// subtitle file is flattened into a plain-text transcript.
type Local struct {
	FFmpegPath  string
	WhisperPath string

	runner    commandRunner
	mkdirTemp func(dir, pattern string) (string, error)
}

func NewLocal() *Local {
	return &Local{
		FFmpegPath:  "ffmpeg",
		WhisperPath: "whisper-cli",
		runner:      execRunner{},
		mkdirTemp:   os.MkdirTemp,
	}
}

func (l *Local) Transcribe(ctx context.Context, inputPath, outputDir string, p Params) (string, error) {
	if strings.TrimSpace(inputPath) == "" {
		return "", apperrors.InvalidInput("No input file given")
	}
	if _, err := os.Stat(inputPath); err != nil {
		return "", apperrors.Job("Cannot access input file: "+inputPath, err)
	}
	if strings.TrimSpace(p.Model) == "" {
		return "", apperrors.InvalidInput("No whisper model configured")
	}
	if strings.TrimSpace(outputDir) == "" {
		outputDir = filepath.Dir(inputPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", apperrors.Job("Cannot create output directory: "+outputDir, err)
	}

	tempDir, err := l.mkdirTemp("", "whisperdesk-*")
	if err != nil {
		return "", apperrors.Job("Failed to create temporary workspace", err)
	}
	defer os.RemoveAll(tempDir)

	wavPath := filepath.Join(tempDir, "audio-16k-mono.wav")
	if _, err := l.runStage(ctx, "preprocessing", l.FFmpegPath, ffmpegArgs(inputPath, wavPath)); err != nil {
		return "", err
	}

	subPrefix := filepath.Join(tempDir, "transcript")
	result, err := l.runStage(ctx, "transcribing", l.WhisperPath, whisperArgs(p, wavPath, subPrefix))
	if err != nil {
		return "", err
	}
	if p.Language == "" && !p.TranslateToEnglish {
		if name, ok := detectedLanguage(result.Stderr); ok {
			logger.Info("Autodetected language", "language", name)
			p.Language = name
		}
	}

	segments, err := srt.Load(subPrefix + ".srt")
	if err != nil {
		return "", apperrors.Job("Transcription produced no readable subtitles", err)
	}
	if err := srt.Validate(segments); err != nil {
		return "", apperrors.Job("Transcription produced no dialogue", err)
	}

	outPath := filepath.Join(outputDir, OutputFileName(inputPath, p))
	outPath, renamed, err := files.SafePath(outPath)
	if err != nil {
		return "", apperrors.Job("Failed to pick an output path", err)
	}
	if renamed {
		logger.Info("Output already exists, writing under a new name", "path", outPath)
	}
	if err := files.AtomicWrite(outPath, []byte(srt.PlainText(segments)), 0o644); err != nil {
		return "", apperrors.Job("Failed to write transcript", err)
	}
	return outPath, nil
}

func (l *Local) runStage(ctx context.Context, stage, bin string, args []string) (commandResult, error) {
	logger.Debug("Running stage", "stage", stage, "bin", bin)
	result, err := l.runner.Run(ctx, bin, args...)
	if err != nil {
		if ctx.Err() != nil {
			return result, apperrors.Canceled(ctx.Err())
		}
		logger.Error("Stage failed", "stage", stage, "bin", bin, "exit_code", result.ExitCode, "stderr", tail(result.Stderr))
		return result, apperrors.Job(
			fmt.Sprintf("%s failed (%s exited with code %d)", stage, filepath.Base(bin), result.ExitCode),
			err,
		)
	}
	return result, nil
}

var detectedLanguageRe = regexp.MustCompile(`auto[- ]detected language:\s*([a-z]{2,3})\b`)

// detectedLanguage pulls the language whisper.cpp settled on out of its
// stderr chatter, e.g. "auto-detected language: en (p = 0.976)".
func detectedLanguage(stderr string) (string, bool) {
	m := detectedLanguageRe.FindStringSubmatch(stderr)
	if m == nil {
		return "", false
	}
	lang, ok := language.GetLanguage(m[1])
	if !ok {
		return "", false
	}
	return lang.Name, true
}

func ffmpegArgs(inputPath, wavPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		wavPath,
	}
}

func whisperArgs(p Params, wavPath, outPrefix string) []string {
	args := []string{
		"-m", p.Model,
		"-f", wavPath,
		"-of", outPrefix,
		"-osrt",
	}

	code := language.Autodetect
	if lang, ok := language.FromName(p.Language); ok {
		code = lang.Code
	}
	args = append(args, "-l", code)

	if p.TranslateToEnglish {
		args = append(args, "-tr")
	}
	if strings.TrimSpace(p.InitialPrompt) != "" {
		args = append(args, "--prompt", p.InitialPrompt)
	}
	return args
}

// tail keeps error logs readable when a tool dumps pages of output.
func tail(s string) string {
	const max = 2000
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
