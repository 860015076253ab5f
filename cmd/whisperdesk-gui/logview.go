package main

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// maxConsoleLines caps the in-app console so a long session does not grow
// the window's memory without bound.
const maxConsoleLines = 500

// logView is the main window's console area. It implements io.Writer so
// the logger can mirror its pretty output here; writes arrive from any
// goroutine and are rendered on the fyne thread.
type logView struct {
	mu         sync.Mutex
	lines      []string
	partial    string
	autoscroll func() bool

	label  *widget.Label
	scroll *container.Scroll
}

func newLogView(autoscroll func() bool) *logView {
	v := &logView{autoscroll: autoscroll}
	v.label = widget.NewLabel("")
	v.label.TextStyle.Monospace = true
	v.scroll = container.NewVScroll(v.label)
	return v
}

func (v *logView) Write(p []byte) (int, error) {
	v.mu.Lock()
	v.partial += string(p)
	for {
		i := strings.IndexByte(v.partial, '\n')
		if i < 0 {
			break
		}
		v.lines = append(v.lines, v.partial[:i])
		v.partial = v.partial[i+1:]
	}
	if len(v.lines) > maxConsoleLines {
		v.lines = v.lines[len(v.lines)-maxConsoleLines:]
	}
	text := strings.Join(v.lines, "\n")
	follow := v.autoscroll()
	v.mu.Unlock()

	safeDo("console.append", func() {
		v.label.SetText(text)
		if follow {
			v.scroll.ScrollToBottom()
		}
	})
	return len(p), nil
}
