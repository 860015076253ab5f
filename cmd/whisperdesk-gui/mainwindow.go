package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/language"
	"github.com/mkoskela/whisperdesk/internal/profiles"
)

const autodetectLabel = "Autodetect"

// mainView holds the main window's widgets so event handlers and the
// profile subscription can refresh them.
type mainView struct {
	app *guiApp

	// files and fileIndex belong to the dispatch loop; visible is the
	// fyne goroutine's snapshot that the list callbacks render from.
	files     []string
	visible   []string
	fileList  *widget.List
	fileIndex int

	languageSelect *widget.Select
	engineSelect   *widget.Select
	modelEntry     *widget.Entry
	outputEntry    *widget.Entry
	translateCheck *widget.Check
	codeCheck      *widget.Check

	profileSelect *widget.Select
	promptEntry   *widget.Entry

	scalingEntry *widget.Entry
	startBtn     *widget.Button
	console      *logView
}

func (a *guiApp) buildMainWindow(win fyne.Window) *mainView {
	v := &mainView{app: a, fileIndex: -1}

	v.fileList = widget.NewList(
		func() int { return len(v.visible) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(truncateGraphemes(filepath.Base(v.visible[i]), maxFileLabelGraphemes))
		},
	)
	v.fileList.OnSelected = func(i widget.ListItemID) {
		a.post("files.select", func() { v.fileIndex = i })
	}
	v.fileList.OnUnselected = func(widget.ListItemID) {
		a.post("files.unselect", func() { v.fileIndex = -1 })
	}

	addBtn := widget.NewButton("Add Files", func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			rc.Close()
			a.post("files.add", func() {
				v.files = append(v.files, path)
				v.refreshFileList(false)
			})
		}, win)
	})
	removeBtn := widget.NewButton("Remove", func() {
		a.post("files.remove", func() {
			i := v.fileIndex
			if i < 0 || i >= len(v.files) {
				return
			}
			v.files = append(v.files[:i], v.files[i+1:]...)
			v.fileIndex = -1
			v.refreshFileList(true)
		})
	})
	clearBtn := widget.NewButton("Clear", func() {
		a.post("files.clear", func() {
			v.files = nil
			v.fileIndex = -1
			v.refreshFileList(true)
		})
	})

	win.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		if len(uris) == 0 {
			return
		}
		paths := make([]string, 0, len(uris))
		for _, u := range uris {
			paths = append(paths, u.Path())
		}
		a.post("files.drop", func() {
			v.files = append(v.files, paths...)
			v.refreshFileList(false)
		})
	})

	v.languageSelect = widget.NewSelect(
		append([]string{autodetectLabel}, language.DisplayNames()...),
		func(sel string) {
			a.post("config.language", func() {
				if sel == autodetectLabel {
					a.config.Language = ""
					return
				}
				if l, ok := language.FromName(sel); ok {
					a.config.Language = l.Name
				}
			})
		},
	)
	if l, ok := language.FromName(a.config.Language); ok {
		v.languageSelect.SetSelected(l.DisplayName())
	} else {
		v.languageSelect.SetSelected(autodetectLabel)
	}

	v.engineSelect = widget.NewSelect([]string{engineLocal, engineAPI}, func(sel string) {
		a.post("config.engine", func() {
			a.config.Engine = sel
		})
	})
	v.engineSelect.SetSelected(a.config.Engine)

	v.modelEntry = widget.NewEntry()
	v.modelEntry.SetText(a.config.ModelPath)
	v.modelEntry.SetPlaceHolder("Path to whisper model (.bin)")
	v.modelEntry.OnChanged = func(text string) {
		a.post("config.model", func() { a.config.ModelPath = text })
	}
	modelBrowse := widget.NewButton("Browse", func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			rc.Close()
			a.post("config.model", func() {
				a.config.ModelPath = path
				a.safeDo("model.refresh", func() { v.modelEntry.SetText(path) })
			})
		}, win)
	})

	v.outputEntry = widget.NewEntry()
	v.outputEntry.SetText(a.config.OutputDir)
	v.outputEntry.SetPlaceHolder("Output folder (default: next to input)")
	v.outputEntry.OnChanged = func(text string) {
		a.post("config.output", func() { a.config.OutputDir = text })
	}
	outputBrowse := widget.NewButton("Browse", func() {
		dialog.ShowFolderOpen(func(lu fyne.ListableURI, err error) {
			if err != nil || lu == nil {
				return
			}
			path := lu.Path()
			a.post("config.output", func() {
				a.config.OutputDir = path
				a.safeDo("output.refresh", func() { v.outputEntry.SetText(path) })
			})
		}, win)
	})

	v.translateCheck = widget.NewCheck("Translate to English", func(on bool) {
		a.post("config.translate", func() { a.config.TranslateToEnglish = on })
	})
	v.translateCheck.SetChecked(a.config.TranslateToEnglish)

	v.codeCheck = widget.NewCheck("Use language code in file names", func(on bool) {
		a.post("config.language_code", func() { a.config.UseLanguageCode = on })
	})
	v.codeCheck.SetChecked(a.config.UseLanguageCode)

	rememberCheck := widget.NewCheck("Remember output folder", func(on bool) {
		a.post("config.remember_output", func() { a.config.RememberOutputDir = on })
	})
	rememberCheck.SetChecked(a.config.RememberOutputDir)

	autoscrollCheck := widget.NewCheck("Autoscroll log", func(on bool) {
		a.autoscroll.Store(on)
		a.post("config.autoscroll", func() { a.config.Autoscroll = on })
	})
	autoscrollCheck.SetChecked(a.config.Autoscroll)

	v.console = newLogView(a.autoscroll.Load)

	v.promptEntry = widget.NewMultiLineEntry()
	v.promptEntry.Wrapping = fyne.TextWrapWord
	v.promptEntry.SetPlaceHolder("Initial prompt for the model")

	v.profileSelect = widget.NewSelect(a.profiles.Names(), func(sel string) {
		a.post("profiles.choose", func() {
			if sel == a.profiles.Selected() {
				return
			}
			if err := a.profiles.Select(sel); err != nil {
				a.showError("profiles.choose", err)
			}
		})
	})
	v.profileSelect.SetSelected(a.profiles.Selected())
	v.applyProfile(a.profiles.Current())

	// Hand-editing the prompt makes it freeform text again, so the
	// selector falls back to the sentinel without touching the text.
	v.promptEntry.OnChanged = func(text string) {
		a.post("prompt.edit", func() {
			sel := a.profiles.Selected()
			if sel == profiles.Unsaved || text == a.profiles.Prompt(sel) {
				return
			}
			a.profiles.Detach()
		})
	}

	// Keeps the selector and prompt text in step with the profile store,
	// whichever window the change came from.
	a.profiles.Subscribe(func(sel profiles.Selection) {
		a.safeDo("profiles.sync", func() { v.applyProfile(sel) })
	})

	manageBtn := widget.NewButton("Manage Profiles", func() {
		a.post("manager.open", func() { a.openPromptManager() })
	})

	v.scalingEntry = widget.NewEntry()
	v.scalingEntry.SetText(strconv.FormatFloat(a.config.Scaling, 'g', -1, 64))
	scalingApply := widget.NewButton("Apply", func() {
		raw := v.scalingEntry.Text
		a.post("config.scaling", func() { v.applyScalingInput(raw) })
	})

	v.startBtn = widget.NewButton("Start Transcription", func() {
		prompt := v.promptEntry.Text
		a.post("job.start", func() { v.startTranscription(prompt) })
	})

	win.SetContent(container.NewVBox(
		widget.NewLabelWithStyle("Files", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(460, 120), v.fileList),
		container.NewHBox(addBtn, removeBtn, clearBtn),
		widget.NewSeparator(),
		widget.NewForm(
			widget.NewFormItem("Language", v.languageSelect),
			widget.NewFormItem("Engine", v.engineSelect),
			widget.NewFormItem("Model", container.NewBorder(nil, nil, nil, modelBrowse, v.modelEntry)),
			widget.NewFormItem("Output", container.NewBorder(nil, nil, nil, outputBrowse, v.outputEntry)),
		),
		v.translateCheck,
		v.codeCheck,
		rememberCheck,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Profile"), manageBtn, v.profileSelect),
		v.promptEntry,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabel("Scaling"), scalingApply, v.scalingEntry),
		v.startBtn,
		widget.NewSeparator(),
		container.NewBorder(nil, nil, widget.NewLabelWithStyle("Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}), autoscrollCheck),
		container.NewGridWrap(fyne.NewSize(460, 110), v.console.scroll),
	))

	return v
}

// refreshFileList hands the fyne goroutine a fresh snapshot of the file
// list and redraws it. Called on the dispatch loop.
func (v *mainView) refreshFileList(unselect bool) {
	snapshot := append([]string(nil), v.files...)
	v.app.safeDo("files.refresh", func() {
		v.visible = snapshot
		if unselect {
			v.fileList.UnselectAll()
		}
		v.fileList.Refresh()
	})
}

// applyProfile refreshes the profile selector and prompt entry from a
// store snapshot. Called on the fyne goroutine.
func (v *mainView) applyProfile(sel profiles.Selection) {
	v.profileSelect.Options = sel.Names
	v.profileSelect.Selected = sel.Selected
	v.profileSelect.Refresh()
	if sel.Selected != profiles.Unsaved {
		v.promptEntry.SetText(v.app.profiles.Prompt(sel.Selected))
		return
	}
	// A detach keeps whatever the user is typing; every other route to
	// the unsaved entry (picking it, deleting the selected profile)
	// clears the stale prompt text.
	if sel.Cause != profiles.CauseDetach {
		v.promptEntry.SetText("")
	}
}

func (v *mainView) applyScalingInput(raw string) {
	a := v.app
	factor, err := parseScaling(raw)
	if err != nil {
		a.showError("config.scaling", err)
		return
	}
	a.config.Scaling = factor
	saveConfig(a.prefs, a.config)
	a.safeDo("scaling.apply", func() {
		applyScaling(fyne.CurrentApp(), factor)
	})
}

func (v *mainView) startTranscription(prompt string) {
	a := v.app
	if a.jobs.IsRunning() {
		a.showError("job.start", apperrors.Job("A transcription job is already in progress", nil))
		return
	}
	files := append([]string(nil), v.files...)
	if len(files) == 0 {
		a.showError("job.start", apperrors.InvalidInput("Select at least one file to transcribe"))
		return
	}
	if a.config.Engine == engineLocal && a.config.ModelPath == "" {
		a.showError("job.start", apperrors.InvalidInput("Select a whisper model file"))
		return
	}

	if err := a.startJob(files, prompt); err != nil {
		a.showError("job.start", err)
		return
	}
	a.showProgressWindow(len(files))
}

func successMessage(elapsed time.Duration, outputs []string) string {
	msg := fmt.Sprintf("Transcription finished in %s.", elapsed)
	if len(outputs) > 0 {
		msg += "\n\nOutput:"
		for _, o := range outputs {
			msg += "\n" + o
		}
	}
	return msg
}
