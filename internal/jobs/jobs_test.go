package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkoskela/whisperdesk/internal/apperrors"
)

func collect(t *testing.T, notes <-chan Notification, n int) []Notification {
	t.Helper()
	out := make([]Notification, 0, n)
	for len(out) < n {
		select {
		case note := <-notes:
			out = append(out, note)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for notification %d of %d (got %v)", len(out)+1, n, out)
		}
	}
	return out
}

func TestStart_SuccessfulJob(t *testing.T) {
	c := NewController()
	run := func(_ context.Context, file string) (string, error) {
		return file + ".txt", nil
	}

	jobID, err := c.Start(context.Background(), []string{"a.mp4", "b.mp4"}, run)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !c.IsRunning() && c.State() != StateDone {
		t.Fatalf("expected job to be running or already done")
	}

	notes := collect(t, c.Notifications(), 3)
	if notes[0].Type != NoteProgress || notes[0].Index != 1 || notes[0].Total != 2 || notes[0].File != "a.mp4" {
		t.Fatalf("first notification = %+v", notes[0])
	}
	if notes[1].Type != NoteProgress || notes[1].Index != 2 {
		t.Fatalf("second notification = %+v", notes[1])
	}
	last := notes[2]
	if last.Type != NoteSuccess {
		t.Fatalf("terminal notification = %+v, want success", last)
	}
	if last.JobID != jobID {
		t.Fatalf("terminal JobID = %q, want %q", last.JobID, jobID)
	}
	if len(last.Outputs) != 2 || last.Outputs[0] != "a.mp4.txt" {
		t.Fatalf("outputs = %v", last.Outputs)
	}

	if _, ok := c.Finish(); !ok {
		t.Fatalf("Finish after terminal notification should report ok")
	}
	if c.State() != StateIdle {
		t.Fatalf("State() = %v after Finish, want idle", c.State())
	}
}

func TestStart_RejectsConcurrentJob(t *testing.T) {
	c := NewController()
	release := make(chan struct{})
	run := func(_ context.Context, file string) (string, error) {
		<-release
		return file + ".txt", nil
	}

	if _, err := c.Start(context.Background(), []string{"a.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}
	_, err := c.Start(context.Background(), []string{"b.mp4"}, run)
	if !apperrors.IsKind(err, apperrors.KindJob) {
		t.Fatalf("second Start = %v, want job error", err)
	}

	close(release)
	collect(t, c.Notifications(), 2)
	c.Finish()
}

func TestStart_RejectsEmptyFileList(t *testing.T) {
	c := NewController()
	_, err := c.Start(context.Background(), nil, func(context.Context, string) (string, error) { return "", nil })
	if !apperrors.IsKind(err, apperrors.KindInvalidInput) {
		t.Fatalf("Start(nil files) = %v, want invalid_input", err)
	}
}

func TestStop_CurrentFileRunsToCompletion(t *testing.T) {
	c := NewController()
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	run := func(ctx context.Context, file string) (string, error) {
		started <- struct{}{}
		<-release
		// A user stop must not reach the engine through the context;
		// only process shutdown cancels it.
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return file + ".txt", nil
	}

	if _, err := c.Start(context.Background(), []string{"a.mp4", "b.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}

	<-started
	c.Stop()
	if !c.IsStopping() {
		t.Fatalf("expected stopping state after Stop")
	}
	if !c.IsRunning() {
		t.Fatalf("a stopping job still counts as running")
	}
	// Stop is idempotent.
	c.Stop()

	close(release)
	notes := collect(t, c.Notifications(), 2)
	last := notes[1]
	if last.Type != NoteStopped {
		t.Fatalf("terminal notification = %+v, want stopped", last)
	}
	// The file in flight completed before the worker observed the stop,
	// so its transcript was kept.
	if len(last.Outputs) != 1 || last.Outputs[0] != "a.mp4.txt" {
		t.Fatalf("outputs = %v, want the in-flight file's output", last.Outputs)
	}
	if !apperrors.IsKind(last.Err, apperrors.KindCanceled) {
		t.Fatalf("terminal error = %v, want canceled", last.Err)
	}

	if _, ok := c.Finish(); !ok {
		t.Fatalf("Finish after stop should report ok")
	}
}

func TestStop_NoopWhenIdle(t *testing.T) {
	c := NewController()
	c.Stop()
	if c.State() != StateIdle {
		t.Fatalf("Stop on idle controller changed state to %v", c.State())
	}
}

func TestEngineError_TerminatesJob(t *testing.T) {
	c := NewController()
	boom := errors.New("ffmpeg exited with status 1")
	run := func(_ context.Context, file string) (string, error) {
		if file == "bad.mp4" {
			return "", apperrors.Job("Transcription failed", boom)
		}
		return file + ".txt", nil
	}

	if _, err := c.Start(context.Background(), []string{"ok.mp4", "bad.mp4", "never.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}

	notes := collect(t, c.Notifications(), 3)
	last := notes[2]
	if last.Type != NoteError {
		t.Fatalf("terminal notification = %+v, want error", last)
	}
	if !errors.Is(last.Err, boom) {
		t.Fatalf("terminal error lost its cause: %v", last.Err)
	}
	if len(last.Outputs) != 1 {
		t.Fatalf("outputs before failure = %v", last.Outputs)
	}
}

func TestWorkerPanic_BecomesErrorNotification(t *testing.T) {
	c := NewController()
	run := func(context.Context, string) (string, error) {
		panic("unexpected")
	}

	if _, err := c.Start(context.Background(), []string{"a.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}

	notes := collect(t, c.Notifications(), 2)
	last := notes[1]
	if last.Type != NoteError {
		t.Fatalf("terminal notification = %+v, want error", last)
	}
	if !apperrors.IsKind(last.Err, apperrors.KindJob) {
		t.Fatalf("terminal error = %v, want job kind", last.Err)
	}
	if _, ok := c.Finish(); !ok {
		t.Fatalf("Finish after panic should report ok")
	}
}

func TestFinish_IdempotentAndMeasuresElapsed(t *testing.T) {
	c := NewController()
	run := func(_ context.Context, file string) (string, error) {
		time.Sleep(10 * time.Millisecond)
		return file + ".txt", nil
	}

	if _, err := c.Start(context.Background(), []string{"a.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}
	collect(t, c.Notifications(), 2)

	elapsed, ok := c.Finish()
	if !ok {
		t.Fatalf("first Finish should report ok")
	}
	if elapsed <= 0 {
		t.Fatalf("elapsed = %v, want > 0", elapsed)
	}
	if _, ok := c.Finish(); ok {
		t.Fatalf("second Finish should report ok=false")
	}
}

func TestFinish_BeforeJobEnds(t *testing.T) {
	c := NewController()
	release := make(chan struct{})
	run := func(_ context.Context, file string) (string, error) {
		<-release
		return file + ".txt", nil
	}

	if _, err := c.Start(context.Background(), []string{"a.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, ok := c.Finish(); ok {
		t.Fatalf("Finish must not finalize a running job")
	}

	close(release)
	collect(t, c.Notifications(), 2)
	if _, ok := c.Finish(); !ok {
		t.Fatalf("Finish after completion should report ok")
	}
}

func TestCanceledParentContext_StopsJob(t *testing.T) {
	c := NewController()
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	release := make(chan struct{})
	run := func(_ context.Context, file string) (string, error) {
		close(started)
		<-release
		return file + ".txt", nil
	}

	if _, err := c.Start(ctx, []string{"a.mp4", "b.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started
	cancel()
	close(release)

	notes := collect(t, c.Notifications(), 2)
	if notes[1].Type != NoteStopped {
		t.Fatalf("terminal notification = %+v, want stopped", notes[1])
	}
}

func TestProgress_TracksCompletedAndCurrentFile(t *testing.T) {
	c := NewController()
	release := make(chan struct{})
	started := make(chan struct{}, 2)
	run := func(_ context.Context, file string) (string, error) {
		started <- struct{}{}
		<-release
		return file + ".txt", nil
	}

	if _, err := c.Start(context.Background(), []string{"a.mp4", "b.mp4"}, run); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("worker never started")
	}
	completed, total, current := c.Progress()
	if completed != 0 || total != 2 || current != "a.mp4" {
		t.Fatalf("Progress() = (%d, %d, %q), want (0, 2, %q)", completed, total, current, "a.mp4")
	}

	close(release)
	notes := collect(t, c.Notifications(), 3)
	if notes[len(notes)-1].Type != NoteSuccess {
		t.Fatalf("last notification = %v, want success", notes[len(notes)-1].Type)
	}
	completed, total, current = c.Progress()
	if completed != 2 || total != 2 || current != "" {
		t.Fatalf("Progress() after success = (%d, %d, %q), want (2, 2, \"\")", completed, total, current)
	}
}
