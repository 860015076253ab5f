package main

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/rivo/uniseg"

	"github.com/mkoskela/whisperdesk/internal/windows"
)

// maxFileLabelGraphemes caps the displayed file name so long paths do not
// stretch the progress window.
const maxFileLabelGraphemes = 48

type progressView struct {
	app   *guiApp
	id    windows.ID
	win   fyne.Window
	meter *widget.ProgressBar
	count *widget.Label
	file  *widget.Label
	stop  *widget.Button
}

// showProgressWindow opens the transcription progress window. The widgets
// are built on the fyne goroutine; the loop then takes over the registry
// entry and the progress hooks through a posted event, so hook state
// never changes off the loop.
func (a *guiApp) showProgressWindow(total int) {
	v := &progressView{app: a}
	a.safeDo("progress.open", func() {
		v.build(total)
		a.post("progress.ready", func() {
			v.id = a.registry.Track("progress", newFyneSurface(v.win, 0, 0))
			a.modals.Push(v.id)
			if !a.jobs.IsRunning() {
				// The job already hit its terminal notification while
				// the window was being built.
				v.close()
				return
			}
			a.hooks.updateProgress = v.update
			a.hooks.closeProgress = v.close
		})
	})
}

func (v *progressView) build(total int) {
	a := v.app
	v.meter = widget.NewProgressBar()
	v.meter.Max = float64(total)
	v.count = widget.NewLabel(fmt.Sprintf("Preparing %d file(s)...", total))
	v.file = widget.NewLabel("")
	v.stop = widget.NewButton("Cancel", func() {
		a.post("job.stop", func() {
			a.jobs.Stop()
			a.safeDo("progress.stopping", func() {
				v.stop.SetText("Stopping...")
				v.stop.Disable()
			})
		})
	})

	win := fyne.CurrentApp().NewWindow("Transcribing")
	win.SetContent(container.NewVBox(v.count, v.file, v.meter, v.stop))
	win.Resize(fyne.NewSize(360, 140))
	win.SetCloseIntercept(func() {
		// Closing the window means cancel, same as the button.
		a.post("job.stop", func() { a.jobs.Stop() })
	})
	win.CenterOnScreen()
	win.Show()
	v.win = win
}

func (v *progressView) update(index, total int, file string) {
	v.app.safeDo("progress.update", func() {
		v.count.SetText(fmt.Sprintf("Transcribing %d of %d", index, total))
		v.file.SetText(truncateGraphemes(filepath.Base(file), maxFileLabelGraphemes))
		v.meter.SetValue(float64(index - 1))
	})
}

func (v *progressView) close() {
	hooks := noopHooks()
	v.app.hooks.updateProgress = hooks.updateProgress
	v.app.hooks.closeProgress = hooks.closeProgress
	v.app.registry.Close(v.id)
}

// truncateGraphemes shortens s to at most max grapheme clusters, replacing
// the removed middle with an ellipsis. Counting clusters instead of bytes
// keeps combined characters and emoji intact.
func truncateGraphemes(s string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}

	head := (max - 1) / 2
	tail := max - 1 - head

	var clusters []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	out := ""
	for _, c := range clusters[:head] {
		out += c
	}
	out += "…"
	for _, c := range clusters[len(clusters)-tail:] {
		out += c
	}
	return out
}
