package main

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/mkoskela/whisperdesk/internal/windows"
)

// fyneSurface adapts a fyne.Window to the window registry. Fyne cannot
// report or set a window's screen location, so the surface carries the
// logical position the app assigned when it opened the window; a window
// that vanished before its position was read reports ok=false.
type fyneSurface struct {
	mu     sync.Mutex
	win    fyne.Window
	shield *widget.PopUp
	x, y   int
	hasPos bool
}

func newFyneSurface(win fyne.Window, x, y int) *fyneSurface {
	return &fyneSurface{win: win, x: x, y: y, hasPos: true}
}

func (s *fyneSurface) Close() {
	safeDo("window.close", func() {
		s.win.Close()
	})
}

func (s *fyneSurface) RequestFocus() {
	safeDo("window.focus", func() {
		s.win.RequestFocus()
	})
}

// SetEnabled shields the window's canvas behind an empty modal popup
// while disabled. Fyne has no per-window disable, but a modal popup
// swallows all input on its canvas.
func (s *fyneSurface) SetEnabled(enabled bool) {
	safeDo("window.set_enabled", func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if enabled {
			if s.shield != nil {
				s.shield.Hide()
				s.shield = nil
			}
			return
		}
		if s.shield == nil {
			s.shield = widget.NewModalPopUp(widget.NewLabel(""), s.win.Canvas())
			s.shield.Show()
		}
	})
}

func (s *fyneSurface) Position() (int, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.x, s.y, s.hasPos
}

var _ windows.Surface = (*fyneSurface)(nil)
