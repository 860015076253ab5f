package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/logger"
	"github.com/mkoskela/whisperdesk/internal/profiles"
	"github.com/mkoskela/whisperdesk/internal/windows"
)

// Logical window positions. Fyne does not expose real screen coordinates,
// so the app assigns them itself and the registry remembers them for the
// rebuild-in-place contract below.
const (
	managerPosX = 140
	managerPosY = 140
	editorPosX  = 180
	editorPosY  = 180
)

// promptManager is the window listing saved prompt profiles with buttons
// to create, edit, and delete them. Edits happen in modal editor windows
// stacked on top of it.
type promptManager struct {
	app      *guiApp
	id       windows.ID
	win      fyne.Window
	list     *widget.List
	names    []string
	selected string
}

// openPromptManager shows the profile manager, focusing the existing one
// if it is already open. The widgets are built on the fyne goroutine; the
// manager field itself only changes back on the loop, via a posted event.
func (a *guiApp) openPromptManager() {
	if a.manager != nil && a.registry.IsOpen(a.manager.id) {
		if s, ok := a.registry.Surface(a.manager.id); ok {
			s.RequestFocus()
		}
		return
	}
	if a.managerPending {
		return
	}
	a.managerPending = true
	a.safeDo("manager.build", func() {
		m := a.buildPromptManager(managerPosX, managerPosY)
		a.post("manager.opened", func() {
			a.managerPending = false
			a.manager = m
		})
	})
}

// windowClosed reconciles state after the toolkit destroyed a window on
// its own (the user hit the titlebar close button), so the registry and
// modal stack do not keep a dead window alive.
func (a *guiApp) windowClosed(id windows.ID) {
	a.registry.Forget(id)
	if a.manager != nil && a.manager.id == id {
		a.manager = nil
	}
}

// reloadPromptManager rebuilds the manager window after a profile
// mutation so its list reflects the store. The new window must appear at
// the old one's recorded position; if that position is gone the rebuild
// still happens, centered, and the failure is reported rather than
// swallowed.
func (a *guiApp) reloadPromptManager() {
	old := a.manager
	if old == nil {
		return
	}

	x, y, ok := a.registry.Position(old.id)
	a.registry.Close(old.id)

	if !ok {
		err := apperrors.WindowLocation("Could not restore the profile window position.")
		logger.Error("Profile manager position unavailable, rebuilding centered", "error", err)
		a.safeDo("manager.position_error", func() {
			dialog.ShowError(fmt.Errorf("%s", apperrors.PublicMessage(err)), a.window)
		})
		x, y = managerPosX, managerPosY
	}
	a.safeDo("manager.rebuild", func() {
		m := a.buildPromptManager(x, y)
		a.post("manager.reopened", func() { a.manager = m })
	})
}

func (a *guiApp) buildPromptManager(x, y int) *promptManager {
	m := &promptManager{app: a, selected: a.profiles.Selected()}
	m.names = a.profiles.Names()

	m.list = widget.NewList(
		func() int { return len(m.names) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(m.names[i])
		},
	)
	m.list.OnSelected = func(i widget.ListItemID) {
		name := m.names[i]
		a.post("profiles.select", func() {
			if err := a.profiles.Select(name); err != nil {
				a.showError("profiles.select", err)
				return
			}
			m.selected = name
		})
	}
	if i := indexOf(m.names, m.selected); i >= 0 {
		m.list.Select(i)
	}

	newBtn := widget.NewButton("New", func() {
		a.post("profiles.new", func() { a.openProfileEditor("", "", "") })
	})
	editBtn := widget.NewButton("Edit", func() {
		a.post("profiles.edit", func() {
			name := m.selected
			if name == profiles.Unsaved {
				a.showError("profiles.edit", apperrors.InvalidSelection("No saved profile selected"))
				return
			}
			a.openProfileEditor(name, name, a.profiles.Prompt(name))
		})
	})
	deleteBtn := widget.NewButton("Delete", func() {
		a.post("profiles.delete", func() { m.confirmDelete() })
	})
	closeBtn := widget.NewButton("Close", func() {
		a.post("manager.close", func() {
			a.registry.Close(m.id)
		})
	})

	win := fyne.CurrentApp().NewWindow("Prompt Profiles")
	win.SetContent(container.NewBorder(
		nil,
		container.NewHBox(newBtn, editBtn, deleteBtn, closeBtn),
		nil, nil,
		m.list,
	))
	win.Resize(fyne.NewSize(320, 300))

	m.win = win
	m.id = a.registry.Track("prompt-manager", newFyneSurface(win, x, y))
	a.modals.Push(m.id)
	win.SetOnClosed(func() {
		a.post("manager.closed", func() { a.windowClosed(m.id) })
	})
	win.Show()
	return m
}

func (m *promptManager) confirmDelete() {
	a := m.app
	name := m.selected
	if name == profiles.Unsaved {
		a.showError("profiles.delete", apperrors.InvalidSelection("No saved profile selected"))
		return
	}
	a.safeDo("profiles.delete_confirm", func() {
		dialog.ShowConfirm(
			"Delete Profile",
			fmt.Sprintf("Delete profile %q?", name),
			func(confirmed bool) {
				if !confirmed {
					return
				}
				a.post("profiles.delete_do", func() {
					if err := a.profiles.Delete(name); err != nil {
						a.showError("profiles.delete", err)
						return
					}
					a.reloadPromptManager()
				})
			},
			m.win,
		)
	})
}

// openProfileEditor shows the modal window for creating (originalName
// empty) or renaming and editing a profile.
func (a *guiApp) openProfileEditor(originalName, name, prompt string) {
	a.safeDo("editor.build", func() {
		a.buildProfileEditor(originalName, name, prompt)
	})
}

func (a *guiApp) buildProfileEditor(originalName, name, prompt string) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(name)
	promptEntry := widget.NewMultiLineEntry()
	promptEntry.SetText(prompt)
	promptEntry.Wrapping = fyne.TextWrapWord

	title := "New Profile"
	if originalName != "" {
		title = "Edit Profile"
	}
	win := fyne.CurrentApp().NewWindow(title)

	var id windows.ID
	saveBtn := widget.NewButton("Save", func() {
		newName := nameEntry.Text
		newPrompt := promptEntry.Text
		a.post("profiles.save", func() {
			var err error
			if originalName == "" {
				err = a.profiles.Add(newName, newPrompt)
			} else {
				err = a.profiles.Edit(originalName, newName, newPrompt)
			}
			if err != nil {
				a.safeDo("profiles.save_error", func() {
					dialog.ShowError(fmt.Errorf("%s", apperrors.PublicMessage(err)), win)
				})
				return
			}
			a.registry.Close(id)
			a.reloadPromptManager()
		})
	})
	cancelBtn := widget.NewButton("Cancel", func() {
		a.post("profiles.cancel", func() { a.registry.Close(id) })
	})

	win.SetContent(container.NewBorder(
		widget.NewForm(widget.NewFormItem("Name", nameEntry)),
		container.NewHBox(saveBtn, cancelBtn),
		nil, nil,
		promptEntry,
	))
	win.Resize(fyne.NewSize(400, 300))

	id = a.registry.Track("prompt-editor", newFyneSurface(win, editorPosX, editorPosY))
	a.modals.Push(id)
	win.SetOnClosed(func() {
		a.post("editor.closed", func() { a.windowClosed(id) })
	})
	win.Show()
}

// showError surfaces an operation failure to the user with its safe
// message and logs the full cause.
func (a *guiApp) showError(scope string, err error) {
	logger.Error("Operation failed", "scope", scope, "error", err)
	a.safeDo(scope+".error", func() {
		if a.window == nil {
			return
		}
		dialog.ShowError(fmt.Errorf("%s", apperrors.PublicMessage(err)), a.window)
	})
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
