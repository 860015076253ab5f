package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/cleanup"
	"github.com/mkoskela/whisperdesk/internal/engine"
	"github.com/mkoskela/whisperdesk/internal/files"
	"github.com/mkoskela/whisperdesk/internal/jobs"
	"github.com/mkoskela/whisperdesk/internal/logger"
	"github.com/mkoskela/whisperdesk/internal/profiles"
	"github.com/mkoskela/whisperdesk/internal/settings"
)

type transcribeOptions struct {
	language     string
	modelPath    string
	engineName   string
	outputDir    string
	translate    bool
	languageCode bool
	prompt       string
	profile      string
	logFilePath  string
	allowEnv     bool
	envOnly      bool
	debug        bool
}

func newTranscribeCmd() *cobra.Command {
	opts := transcribeOptions{}
	cmd := &cobra.Command{
		Use:   "transcribe <media files...>",
		Short: "Transcribe audio or video files with Whisper",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return fmt.Errorf("at least one media file is required")
			}
			return runTranscribe(cmd, args, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranscribeFlags(cmd, &opts)
	return cmd
}

func addTranscribeFlags(cmd *cobra.Command, opts *transcribeOptions) {
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Audio language name or code (default: autodetect)")
	cmd.Flags().StringVarP(&opts.modelPath, "model", "m", "", "Path to the whisper model file (required for local engine)")
	cmd.Flags().StringVar(&opts.engineName, "engine", "local", "Transcription engine (local or api)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for transcripts (default: next to input)")
	cmd.Flags().BoolVar(&opts.translate, "translate", false, "Translate the transcript to English")
	cmd.Flags().BoolVar(&opts.languageCode, "language-code", false, "Use the ISO code instead of the language name in output file names")
	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "Initial prompt to guide the model")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "Use a saved prompt profile instead of --prompt")
	cmd.Flags().StringVar(&opts.logFilePath, "log-file", "", "Path to save machine-readable JSONL logs")
	cmd.Flags().BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading the API key from OPENAI_API_KEY")
	cmd.Flags().BoolVar(&opts.envOnly, "env-only", false, "Use only the environment variable for the API key")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
}

func runTranscribe(cmd *cobra.Command, args []string, opts *transcribeOptions) error {
	logLevel := logger.LevelInfo
	if opts.debug {
		logLevel = logger.LevelDebug
	}
	var logFileW io.Writer
	if opts.logFilePath != "" {
		if err := files.RejectSymlinkPath(opts.logFilePath); err != nil {
			return err
		}
		f, err := os.OpenFile(opts.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cleanup.Register(f.Close)
		logFileW = f
	}
	logger.Init(logLevel, logFileW)

	for _, path := range args {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot read input file %s: %w", path, err)
		}
	}

	langName, err := resolveLanguage(opts.language)
	if err != nil {
		return err
	}

	prompt := opts.prompt
	if opts.profile != "" {
		if prompt != "" {
			return fmt.Errorf("--prompt and --profile are mutually exclusive")
		}
		prompt, err = loadProfilePrompt(opts.profile)
		if err != nil {
			return err
		}
	}

	eng, err := buildEngine(opts)
	if err != nil {
		return err
	}

	params := engine.Params{
		Language:           langName,
		Model:              opts.modelPath,
		TranslateToEnglish: opts.translate,
		UseLanguageCode:    opts.languageCode,
		InitialPrompt:      prompt,
	}

	ctx, stop := signalContext()
	defer stop()

	ctrl := jobs.NewController()
	run := func(ctx context.Context, file string) (string, error) {
		return eng.Transcribe(ctx, file, opts.outputDir, params)
	}
	if _, err := ctrl.Start(ctx, args, run); err != nil {
		return err
	}

	return reportProgress(cmd, ctrl)
}

// reportProgress consumes the job's notifications until the terminal one
// and converts the outcome into the process exit status.
func reportProgress(cmd *cobra.Command, ctrl *jobs.Controller) error {
	out := cmd.OutOrStdout()
	for note := range ctrl.Notifications() {
		switch note.Type {
		case jobs.NoteProgress:
			fmt.Fprintf(out, "[%d/%d] %s\n", note.Index, note.Total, note.File)
		case jobs.NoteSuccess:
			elapsed, _ := ctrl.Finish()
			for _, o := range note.Outputs {
				fmt.Fprintf(out, "Wrote %s\n", o)
			}
			fmt.Fprintf(out, "Done in %s.\n", elapsed.Round(time.Second))
			return nil
		case jobs.NoteError:
			ctrl.Finish()
			return fmt.Errorf("transcription failed: %s", apperrors.PublicMessage(note.Err))
		case jobs.NoteStopped:
			elapsed, _ := ctrl.Finish()
			fmt.Fprintf(out, "Stopped after %s. Finished files were kept.\n", elapsed.Round(time.Second))
			return nil
		}
	}
	return fmt.Errorf("transcription ended without a result")
}

func buildEngine(opts *transcribeOptions) (engine.Engine, error) {
	switch opts.engineName {
	case "local":
		if opts.modelPath == "" {
			return nil, fmt.Errorf("--model is required for the local engine")
		}
		return engine.NewLocal(), nil
	case "api":
		key, source, err := resolveAPIKey(opts.allowEnv, opts.envOnly)
		if err != nil {
			return nil, err
		}
		logger.Info("Using API Key", "source", source)
		return engine.NewAPI(key), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (must be local or api)", opts.engineName)
	}
}

// loadProfilePrompt reads a saved prompt profile from the settings store
// shared with the GUI.
func loadProfilePrompt(name string) (string, error) {
	prefs, err := settings.NewFileStore(settingsPath())
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}
	store := profiles.NewStore(prefs)
	if name == profiles.Unsaved {
		return "", nil
	}
	for _, n := range store.Names() {
		if n == name {
			return store.Prompt(name), nil
		}
	}
	return "", fmt.Errorf("unknown prompt profile %q", name)
}
