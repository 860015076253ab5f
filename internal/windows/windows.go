// Package windows tracks open top-level windows and modal layering for the
// GUI shell. Windows are addressed by opaque IDs so state survives the
// toolkit destroying and recreating the underlying window objects.
package windows

import (
	"sync"

	"github.com/google/uuid"
)

// ID identifies a tracked window. IDs are never reused.
type ID string

// Surface is the minimal control surface the registry needs from a
// toolkit window. Position reports ok=false when the toolkit cannot
// determine the window's screen location.
type Surface interface {
	Close()
	RequestFocus()
	SetEnabled(enabled bool)
	Position() (x, y int, ok bool)
}

type entry struct {
	name    string
	surface Surface
}

// Registry tracks open windows. Close is idempotent: closing an unknown
// or already-closed ID is a no-op.
type Registry struct {
	mu    sync.Mutex
	wins  map[ID]*entry
	order []ID
}

func NewRegistry() *Registry {
	return &Registry{wins: make(map[ID]*entry)}
}

// Track registers an open window under a fresh ID.
func (r *Registry) Track(name string, s Surface) ID {
	id := ID(uuid.NewString())
	r.mu.Lock()
	r.wins[id] = &entry{name: name, surface: s}
	r.order = append(r.order, id)
	r.mu.Unlock()
	return id
}

func (r *Registry) IsOpen(id ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.wins[id]
	return ok
}

// Name returns the name a window was tracked under.
func (r *Registry) Name(id ID) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.wins[id]
	if !ok {
		return "", false
	}
	return e.name, true
}

// Surface returns the toolkit surface for an open window.
func (r *Registry) Surface(id ID) (Surface, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.wins[id]
	if !ok {
		return nil, false
	}
	return e.surface, true
}

// Position reports the window's screen location. ok is false for closed
// windows and for windows whose location the toolkit cannot supply.
func (r *Registry) Position(id ID) (x, y int, ok bool) {
	r.mu.Lock()
	e, open := r.wins[id]
	r.mu.Unlock()
	if !open {
		return 0, 0, false
	}
	return e.surface.Position()
}

// Close closes the window and forgets it. Safe to call repeatedly.
func (r *Registry) Close(id ID) {
	r.mu.Lock()
	e, ok := r.wins[id]
	if ok {
		r.dropLocked(id)
	}
	r.mu.Unlock()
	if ok {
		e.surface.Close()
	}
}

// Forget stops tracking a window without closing its surface. Used when
// the toolkit already destroyed the window (user hit the close button).
func (r *Registry) Forget(id ID) {
	r.mu.Lock()
	r.dropLocked(id)
	r.mu.Unlock()
}

// CloseAll closes every tracked window, newest first.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	ids := make([]ID, len(r.order))
	copy(ids, r.order)
	r.mu.Unlock()

	for i := len(ids) - 1; i >= 0; i-- {
		r.Close(ids[i])
	}
}

// Open returns the IDs of all open windows in tracking order.
func (r *Registry) Open() []ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ID, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) dropLocked(id ID) {
	if _, ok := r.wins[id]; !ok {
		return
	}
	delete(r.wins, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}
