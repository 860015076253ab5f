package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/auth"
	"github.com/mkoskela/whisperdesk/internal/cleanup"
	"github.com/mkoskela/whisperdesk/internal/engine"
	"github.com/mkoskela/whisperdesk/internal/jobs"
	"github.com/mkoskela/whisperdesk/internal/logger"
	"github.com/mkoskela/whisperdesk/internal/profiles"
	"github.com/mkoskela/whisperdesk/internal/settings"
	"github.com/mkoskela/whisperdesk/internal/windows"
)

// loopTick bounds how long the loop sleeps with nothing to do, so
// housekeeping runs even when no events arrive.
const loopTick = 250 * time.Millisecond

// uiHooks are the loop's only way to touch the toolkit. The fyne wiring
// fills them in; tests substitute recorders.
type uiHooks struct {
	updateProgress func(index, total int, file string)
	closeProgress  func()
	showSuccess    func(elapsed time.Duration, outputs []string)
	showError      func(err error)
	showStopped    func(elapsed time.Duration)
}

func noopHooks() uiHooks {
	return uiHooks{
		updateProgress: func(int, int, string) {},
		closeProgress:  func() {},
		showSuccess:    func(time.Duration, []string) {},
		showError:      func(error) {},
		showStopped:    func(time.Duration) {},
	}
}

type guiApp struct {
	prefs    settings.Store
	config   AppConfig
	registry *windows.Registry
	modals   *windows.ModalStack
	profiles *profiles.Store
	jobs     *jobs.Controller
	hooks    uiHooks

	events   chan Event
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}

	// Read by the console writer off the loop goroutine.
	autoscroll atomic.Bool

	noteMu sync.Mutex
	noteCh <-chan jobs.Notification

	// Set by the fyne wiring; nil under tests. manager and
	// managerPending are only touched on the loop goroutine.
	window          fyne.Window
	mainID          windows.ID
	manager         *promptManager
	managerPending  bool
	panicNoticeOnce sync.Once
}

func newGuiApp(prefs settings.Store) *guiApp {
	registry := windows.NewRegistry()
	a := &guiApp{
		prefs:    prefs,
		config:   loadConfig(prefs),
		registry: registry,
		modals:   windows.NewModalStack(registry),
		profiles: profiles.NewStore(prefs),
		jobs:     jobs.NewController(),
		hooks:    noopHooks(),
		events:   make(chan Event, 64),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	a.autoscroll.Store(a.config.Autoscroll)
	return a
}

// post hands an event to the dispatch loop. Events posted after shutdown
// are dropped.
func (a *guiApp) post(name string, fn func()) {
	select {
	case a.events <- Event{Name: name, Fn: fn}:
	case <-a.quit:
		logger.Debug("Dropping event after shutdown", "event", name)
	}
}

// requestQuit asks the loop to wind down. Safe to call repeatedly.
func (a *guiApp) requestQuit() {
	a.quitOnce.Do(func() {
		close(a.quit)
	})
}

// runLoop is the application's single dispatch loop. All state mutation
// happens here: UI callbacks post events, the job worker reports through
// its notification channel, and every iteration ends with housekeeping.
func (a *guiApp) runLoop() {
	defer close(a.done)
	ticker := time.NewTicker(loopTick)
	defer ticker.Stop()

	for {
		select {
		case ev := <-a.events:
			a.dispatch(ev)
		case note := <-a.notes():
			a.handleJobNote(note)
		case <-ticker.C:
		case <-a.quit:
			a.shutdown()
			return
		}
		a.housekeeping()
	}
}

func (a *guiApp) dispatch(ev Event) {
	logger.Debug("Dispatching event", "event", ev.Name)
	withPanicGuard("event."+ev.Name, func(any) {
		a.handleRecoveredPanic("event." + ev.Name)
	}, ev.Fn)
}

// housekeeping runs after every loop iteration: refresh the progress
// meter while a job is underway, then reconcile the modal stack.
func (a *guiApp) housekeeping() {
	if a.jobs.State() == jobs.StateRunning {
		if completed, total, current := a.jobs.Progress(); current != "" {
			a.hooks.updateProgress(completed+1, total, current)
		}
	}
	a.modals.Reconcile()
}

func (a *guiApp) notes() <-chan jobs.Notification {
	a.noteMu.Lock()
	defer a.noteMu.Unlock()
	return a.noteCh
}

func (a *guiApp) setNotes(ch <-chan jobs.Notification) {
	a.noteMu.Lock()
	a.noteCh = ch
	a.noteMu.Unlock()
}

// startJob launches transcription over the given files with the current
// configuration and prompt.
func (a *guiApp) startJob(files []string, prompt string) error {
	params := engine.Params{
		Language:           a.config.Language,
		Model:              a.config.ModelPath,
		TranslateToEnglish: a.config.TranslateToEnglish,
		UseLanguageCode:    a.config.UseLanguageCode,
		InitialPrompt:      prompt,
	}

	eng, err := a.buildEngine()
	if err != nil {
		return err
	}

	outputDir := a.config.OutputDir
	run := func(ctx context.Context, file string) (string, error) {
		return eng.Transcribe(ctx, file, outputDir, params)
	}

	jobID, err := a.jobs.Start(context.Background(), files, run)
	if err != nil {
		return err
	}
	a.setNotes(a.jobs.Notifications())
	logger.Info("Transcription started", "job_id", jobID, "files", len(files), "engine", a.config.Engine)
	return nil
}

func (a *guiApp) handleJobNote(note jobs.Notification) {
	if note.JobID != a.jobs.JobID() {
		logger.Debug("Ignoring notification from finished job", "job_id", note.JobID)
		return
	}

	switch note.Type {
	case jobs.NoteProgress:
		a.hooks.updateProgress(note.Index, note.Total, note.File)
	case jobs.NoteSuccess:
		elapsed, _ := a.jobs.Finish()
		a.setNotes(nil)
		a.hooks.closeProgress()
		logger.Info("Transcription finished", "elapsed", elapsed, "outputs", len(note.Outputs))
		a.hooks.showSuccess(elapsed, note.Outputs)
	case jobs.NoteError:
		elapsed, _ := a.jobs.Finish()
		a.setNotes(nil)
		a.hooks.closeProgress()
		logger.Error("Transcription failed", "elapsed", elapsed, "error", note.Err)
		a.hooks.showError(note.Err)
	case jobs.NoteStopped:
		elapsed, _ := a.jobs.Finish()
		a.setNotes(nil)
		a.hooks.closeProgress()
		logger.Info("Transcription stopped", "elapsed", elapsed)
		a.hooks.showStopped(elapsed)
	}
}

func (a *guiApp) buildEngine() (engine.Engine, error) {
	switch a.config.Engine {
	case engineAPI:
		key, source := auth.GetKey(true)
		if key == "" {
			return nil, apperrors.New(apperrors.KindAuth,
				"No API key configured. Save one with the key command or set OPENAI_API_KEY.", nil)
		}
		logger.Debug("Using API engine", "key_source", source)
		return engine.NewAPI(key), nil
	default:
		return engine.NewLocal(), nil
	}
}

func (a *guiApp) shutdown() {
	if a.jobs.IsRunning() {
		a.jobs.Stop()
		// Wait for the worker's terminal notification before windows
		// close. The stop lands between files, so the file in flight
		// finishes and its transcript is kept.
		if ch := a.notes(); ch != nil {
			for note := range ch {
				if note.Type != jobs.NoteProgress {
					a.jobs.Finish()
					break
				}
			}
		}
	}

	a.registry.CloseAll()
	saveConfig(a.prefs, a.config)
	if err := cleanup.RunAll(); err != nil {
		logger.Error("Cleanup hooks failed", "error", err)
	}
	logger.Info("Shutdown complete")
}

// waitDone blocks until the dispatch loop exited.
func (a *guiApp) waitDone() {
	<-a.done
}
