package main

// Event is one unit of work for the dispatch loop. UI callbacks never
// mutate application state directly; they post events and the loop runs
// them on its own goroutine, one at a time.
type Event struct {
	// Name identifies the event for logs and panic scopes,
	// e.g. "profiles.add" or "job.start".
	Name string
	Fn   func()
}
