// Package profiles manages named initial-prompt profiles for transcription.
// Profiles persist through a settings.Store; the reserved "(None)" entry
// represents the unsaved working prompt and can never be saved over.
package profiles

import (
	"sort"
	"strings"
	"sync"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/settings"
)

// Unsaved is the reserved selector entry for a prompt that is not saved
// under any profile name.
const Unsaved = "(None)"

const (
	profilesKey = "prompt_profiles"
	selectedKey = "selected_prompt_profile"
)

// Cause says which mutation produced a Selection snapshot, so the UI can
// tell a deliberate selection change apart from the prompt text drifting
// away from its saved profile.
type Cause int

const (
	CauseSelect Cause = iota
	CauseAdd
	CauseEdit
	CauseDelete
	// CauseDetach marks the fallback to the unsaved entry after the
	// prompt text was hand-edited.
	CauseDetach
)

// Selection is the snapshot pushed to selector subscribers after every
// mutation: the full option list with the entry that should be selected
// and the mutation that got it there.
type Selection struct {
	Names    []string
	Selected string
	Cause    Cause
}

// Store owns the saved profiles and the current selector state.
type Store struct {
	mu       sync.Mutex
	settings settings.Store
	saved    map[string]string
	selected string
	subs     map[int]func(Selection)
	nextSub  int
}

func NewStore(s settings.Store) *Store {
	st := &Store{
		settings: s,
		saved:    s.StringMap(profilesKey),
		selected: s.StringWithFallback(selectedKey, Unsaved),
		subs:     make(map[int]func(Selection)),
	}
	if _, ok := st.saved[st.selected]; !ok && st.selected != Unsaved {
		st.selected = Unsaved
	}
	return st
}

// Names returns the selector options: the unsaved entry first, then the
// saved profile names sorted.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.namesLocked()
}

func (s *Store) namesLocked() []string {
	names := make([]string, 0, len(s.saved)+1)
	names = append(names, Unsaved)
	for name := range s.saved {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// Prompt returns the saved prompt text for a profile. The unsaved entry
// and unknown names yield an empty prompt.
func (s *Store) Prompt(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[name]
}

func (s *Store) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Select makes name the current selector entry.
func (s *Store) Select(name string) error {
	s.mu.Lock()
	if _, ok := s.saved[name]; !ok && name != Unsaved {
		s.mu.Unlock()
		return apperrors.InvalidSelection("Unknown profile: " + name)
	}
	s.selected = name
	s.persistLocked()
	sel := s.selectionLocked(CauseSelect)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, sel)
	return nil
}

// Detach drops the selector back to the unsaved entry because the prompt
// text no longer matches the selected profile. Subscribers see it as
// CauseDetach and leave the prompt text alone.
func (s *Store) Detach() {
	s.mu.Lock()
	if s.selected == Unsaved {
		s.mu.Unlock()
		return
	}
	s.selected = Unsaved
	s.persistLocked()
	sel := s.selectionLocked(CauseDetach)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, sel)
}

// Add saves a new profile and selects it.
func (s *Store) Add(name, prompt string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.InvalidName("Profile name cannot be blank")
	}

	s.mu.Lock()
	if s.existsLocked(name) {
		s.mu.Unlock()
		return apperrors.InvalidName("A profile named " + name + " already exists")
	}
	s.saved[name] = prompt
	s.selected = name
	s.persistLocked()
	sel := s.selectionLocked(CauseAdd)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, sel)
	return nil
}

// Edit renames and/or rewrites an existing profile and keeps it selected.
func (s *Store) Edit(oldName, newName, prompt string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return apperrors.InvalidName("Profile name cannot be blank")
	}

	s.mu.Lock()
	if _, ok := s.saved[oldName]; !ok {
		s.mu.Unlock()
		return apperrors.InvalidSelection("No saved profile selected")
	}
	if newName != oldName && s.existsLocked(newName) {
		s.mu.Unlock()
		return apperrors.InvalidName("A profile named " + newName + " already exists")
	}
	delete(s.saved, oldName)
	s.saved[newName] = prompt
	if s.selected == oldName {
		s.selected = newName
	}
	s.persistLocked()
	sel := s.selectionLocked(CauseEdit)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, sel)
	return nil
}

// Delete removes a saved profile. Deleting an absent name is a silent
// no-op. If the deleted profile was selected, selection falls back to
// the unsaved entry.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	if _, ok := s.saved[name]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.saved, name)
	if s.selected == name {
		s.selected = Unsaved
	}
	s.persistLocked()
	sel := s.selectionLocked(CauseDelete)
	subs := s.subscribersLocked()
	s.mu.Unlock()

	notify(subs, sel)
	return nil
}

// Subscribe registers a selector observer. It is called synchronously
// after every mutation with the fresh option list and selection. The
// returned function unsubscribes.
func (s *Store) Subscribe(fn func(Selection)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Current returns the selection snapshot without mutating anything.
func (s *Store) Current() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked(CauseSelect)
}

func (s *Store) existsLocked(name string) bool {
	if name == Unsaved {
		return true
	}
	_, ok := s.saved[name]
	return ok
}

func (s *Store) selectionLocked(cause Cause) Selection {
	return Selection{
		Names:    s.namesLocked(),
		Selected: s.selected,
		Cause:    cause,
	}
}

func (s *Store) subscribersLocked() []func(Selection) {
	out := make([]func(Selection), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func (s *Store) persistLocked() {
	s.settings.SetStringMap(profilesKey, s.saved)
	s.settings.SetString(selectedKey, s.selected)
}

func notify(subs []func(Selection), sel Selection) {
	for _, fn := range subs {
		fn(sel)
	}
}
