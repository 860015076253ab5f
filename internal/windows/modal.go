package windows

import "sync"

// ModalStack layers modal windows over the rest of the application. While
// any modal is open, every other tracked window is disabled; only the
// newest open modal accepts input. Closing it reveals the one beneath,
// and closing the last modal re-enables everything.
type ModalStack struct {
	mu         sync.Mutex
	reg        *Registry
	stack      []ID
	lastActive ID
}

func NewModalStack(reg *Registry) *ModalStack {
	return &ModalStack{reg: reg}
}

// Push makes id the active modal. The window must already be tracked.
func (m *ModalStack) Push(id ID) {
	m.mu.Lock()
	m.stack = append(m.stack, id)
	m.mu.Unlock()
	m.Reconcile()
}

// Active returns the newest open modal, or false when no modal is open.
// Closed windows still on the stack are ignored.
func (m *ModalStack) Active() (ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.stack) - 1; i >= 0; i-- {
		if m.reg.IsOpen(m.stack[i]) {
			return m.stack[i], true
		}
	}
	return "", false
}

// Depth returns how many open modals are stacked.
func (m *ModalStack) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, id := range m.stack {
		if m.reg.IsOpen(id) {
			n++
		}
	}
	return n
}

// Reconcile drops closed windows from the stack and re-applies the
// enabled state: with an active modal, all other windows are disabled
// and the modal is focused; with none, every window is enabled. The
// dispatch loop calls this every iteration.
func (m *ModalStack) Reconcile() {
	m.mu.Lock()
	kept := m.stack[:0]
	for _, id := range m.stack {
		if m.reg.IsOpen(id) {
			kept = append(kept, id)
		}
	}
	m.stack = kept

	var active ID
	hasActive := len(m.stack) > 0
	if hasActive {
		active = m.stack[len(m.stack)-1]
	}
	// Reconcile runs every loop iteration; only grab focus when the
	// active modal actually changed.
	focus := hasActive && active != m.lastActive
	m.lastActive = active
	m.mu.Unlock()

	for _, id := range m.reg.Open() {
		s, ok := m.reg.Surface(id)
		if !ok {
			continue
		}
		s.SetEnabled(!hasActive || id == active)
	}
	if focus {
		if s, ok := m.reg.Surface(active); ok {
			s.RequestFocus()
		}
	}
}
