// Package jobs runs one background transcription job at a time and feeds
// its lifecycle back to the GUI dispatch loop as notifications. The worker
// goroutine never touches UI state; it only sends on a buffered channel
// sized so it can never block.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
	"github.com/mkoskela/whisperdesk/internal/logger"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type NoteType int

const (
	// NoteProgress reports that the worker is starting the next file.
	NoteProgress NoteType = iota
	// NoteSuccess, NoteError and NoteStopped are terminal. A job emits
	// exactly one of them.
	NoteSuccess
	NoteError
	NoteStopped
)

// Notification is a lifecycle event from the worker. JobID lets the loop
// discard stragglers from a job it already finalized.
type Notification struct {
	JobID string
	Type  NoteType

	// Progress fields. Index is 1-based.
	Index int
	Total int
	File  string

	// Outputs collected so far (terminal notifications only).
	Outputs []string

	Err error
}

// RunFunc transcribes a single file and returns the output path. Its ctx
// is canceled only when the whole process winds down; a user stop waits
// for the call in flight to return instead.
type RunFunc func(ctx context.Context, file string) (string, error)

// Controller owns the lifecycle of the single background job.
type Controller struct {
	mu         sync.Mutex
	state      State
	jobID      string
	cancel     context.CancelFunc
	startedAt  time.Time
	finishedAt time.Time
	notes      chan Notification

	completed   int
	total       int
	currentFile string
}

func NewController() *Controller {
	return &Controller{}
}

// Start launches a job over the given files. Only one job may run at a
// time; Finish must be called after the previous one ended.
func (c *Controller) Start(ctx context.Context, files []string, run RunFunc) (string, error) {
	if len(files) == 0 {
		return "", apperrors.InvalidInput("No files selected for transcription")
	}
	if run == nil {
		return "", apperrors.InvalidInput("No transcription engine configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle {
		return "", apperrors.Job("A transcription job is already in progress", nil)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	c.state = StateRunning
	c.jobID = uuid.NewString()
	c.cancel = cancel
	c.startedAt = time.Now()
	c.finishedAt = time.Time{}
	c.completed = 0
	c.total = len(files)
	c.currentFile = ""
	// One slot per file plus the terminal notification, so the worker
	// can always send without blocking.
	c.notes = make(chan Notification, len(files)+1)

	go c.work(jobCtx, c.jobID, files, run, c.notes)
	return c.jobID, nil
}

// Notifications returns the channel for the current job. It changes on
// every Start; callers re-read it after starting a job.
func (c *Controller) Notifications() <-chan Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notes
}

// Stop requests cancellation. The worker observes it between files, so
// the file in flight runs to completion and its transcript is kept.
// Safe to call repeatedly and when no job is running.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}
	c.state = StateStopping
	logger.Info("Stop requested", "job_id", c.jobID)
}

// Finish finalizes a completed job and returns its elapsed wall time.
// It is idempotent: only the first call after a job ends reports
// ok=true; any other call returns (0, false).
func (c *Controller) Finish() (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateDone {
		return 0, false
	}
	elapsed := c.finishedAt.Sub(c.startedAt)
	c.state = StateIdle
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.jobID = ""
	return elapsed, true
}

// IsRunning reports whether a job is in flight, including one that is
// winding down after Stop.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateRunning || c.state == StateStopping
}

func (c *Controller) IsStopping() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateStopping
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// JobID returns the identifier of the current job, or "" when idle.
func (c *Controller) JobID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.jobID
}

// Progress reports how far the current job has come: completed files,
// total files, and the file in flight ("" when none).
func (c *Controller) Progress() (completed, total int, current string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.completed, c.total, c.currentFile
}

func (c *Controller) work(ctx context.Context, jobID string, files []string, run RunFunc, notes chan Notification) {
	var outputs []string
	terminal := false

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Transcription worker panicked", "job_id", jobID, "panic", r)
			if !terminal {
				c.markDone()
				notes <- Notification{
					JobID:   jobID,
					Type:    NoteError,
					Outputs: outputs,
					Err:     apperrors.Job("Transcription failed unexpectedly", fmt.Errorf("panic: %v", r)),
				}
			}
		}
	}()

	total := len(files)
	for i, file := range files {
		// A stop and a canceled parent context are both observed here,
		// after the previous file completed.
		if err := ctx.Err(); err != nil || c.IsStopping() {
			c.markDone()
			terminal = true
			notes <- Notification{JobID: jobID, Type: NoteStopped, Outputs: outputs, Err: apperrors.Canceled(err)}
			return
		}

		c.setCurrent(file)
		notes <- Notification{JobID: jobID, Type: NoteProgress, Index: i + 1, Total: total, File: file}

		out, err := run(ctx, file)
		if err != nil {
			c.markDone()
			terminal = true
			if errors.Is(err, context.Canceled) || apperrors.IsKind(err, apperrors.KindCanceled) {
				notes <- Notification{JobID: jobID, Type: NoteStopped, Outputs: outputs, Err: apperrors.Canceled(err)}
				return
			}
			notes <- Notification{JobID: jobID, Type: NoteError, Outputs: outputs, Err: err}
			return
		}
		outputs = append(outputs, out)
		c.fileDone()
	}

	c.markDone()
	terminal = true
	notes <- Notification{JobID: jobID, Type: NoteSuccess, Index: total, Total: total, Outputs: outputs}
}

func (c *Controller) setCurrent(file string) {
	c.mu.Lock()
	c.currentFile = file
	c.mu.Unlock()
}

func (c *Controller) fileDone() {
	c.mu.Lock()
	c.completed++
	c.currentFile = ""
	c.mu.Unlock()
}

func (c *Controller) markDone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDone
	c.finishedAt = time.Now()
}
