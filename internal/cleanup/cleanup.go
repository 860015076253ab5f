// Package cleanup collects teardown hooks (log files, temp workspaces)
// that must run once when the process exits, in reverse registration
// order.
package cleanup

import (
	"errors"
	"sync"
)

var (
	mu    sync.Mutex
	hooks []func() error
)

// Register queues a hook. Hooks run LIFO so later resources are released
// before the ones they depend on. Nil hooks are ignored.
func Register(hook func() error) {
	if hook == nil {
		return
	}
	mu.Lock()
	hooks = append(hooks, hook)
	mu.Unlock()
}

// RunAll runs every queued hook exactly once and clears the queue. All
// hooks run even if some fail; their errors are joined.
func RunAll() error {
	mu.Lock()
	queued := hooks
	hooks = nil
	mu.Unlock()

	var errs []error
	for i := len(queued) - 1; i >= 0; i-- {
		if err := queued[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
