package main

import (
	"fmt"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/logger"
	"github.com/mkoskela/whisperdesk/internal/settings"
)

const (
	mainPosX = 100
	mainPosY = 100
)

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	prefs, err := settings.NewFileStore(settingsPath())
	if err != nil {
		logger.Error("Failed to load settings", "path", settingsPath(), "error", err)
		os.Exit(1)
	}

	ga := newGuiApp(prefs)

	myApp := app.NewWithID("com.whisperdesk.app")
	applyScaling(myApp, ga.config.Scaling)

	w := myApp.NewWindow("whisperdesk")
	w.SetMaster()
	w.Resize(fyne.NewSize(480, 620))
	w.CenterOnScreen()

	ga.window = w
	ga.mainID = ga.registry.Track("main", newFyneSurface(w, mainPosX, mainPosY))
	view := ga.buildMainWindow(w)
	ga.wireFeedback(w)

	// Mirror logs into the main window's console area.
	logger.InitWithMirror(logger.LevelInfo, nil, view.console)

	// Closing the main window shuts the loop down; the loop closes every
	// tracked window, which ends ShowAndRun.
	w.SetCloseIntercept(func() {
		ga.post("app.quit", func() { ga.requestQuit() })
	})

	safeGo("loop", ga.runLoop)

	w.ShowAndRun()
	ga.requestQuit()
	ga.waitDone()
}

// wireFeedback installs the end-of-job dialogs on the loop's UI hooks.
func (a *guiApp) wireFeedback(w fyne.Window) {
	a.hooks.showSuccess = func(elapsed time.Duration, outputs []string) {
		a.safeDo("job.success", func() {
			dialog.ShowInformation("Transcription Complete",
				successMessage(elapsed.Round(time.Second), outputs), w)
		})
	}
	a.hooks.showError = func(err error) {
		a.safeDo("job.error", func() {
			dialog.ShowError(fmt.Errorf("%s", apperrors.PublicMessage(err)), w)
		})
	}
	a.hooks.showStopped = func(elapsed time.Duration) {
		a.safeDo("job.stopped", func() {
			dialog.ShowInformation("Transcription Stopped",
				fmt.Sprintf("Stopped after %s. Finished files were kept.", elapsed.Round(time.Second)), w)
		})
	}
}
