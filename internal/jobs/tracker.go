// Package jobs tracks the local lifecycle of remote compression jobs.
package jobs

import (
	"fmt"
	"sync"

	"compresspdf/internal/domain/compression"
)

// Tracker follows one remote job from creation to a terminal status.
type Tracker struct {
	mu       sync.RWMutex
	current  compression.Job
	onChange func(compression.Job)
}

// NewTracker creates a tracker for requestID. onChange, when set, is called
// after every accepted transition with a snapshot of the job.
func NewTracker(requestID string, onChange func(compression.Job)) *Tracker {
	return &Tracker{
		current:  compression.Job{RequestID: requestID},
		onChange: onChange,
	}
}

// Created records the service-side job id and enters import-pending.
func (t *Tracker) Created(jobID string) error {
	t.mu.Lock()
	if t.current.Status != "" {
		t.mu.Unlock()
		return fmt.Errorf("job already created: %s", t.current.ID)
	}
	t.current.ID = jobID
	t.current.Status = compression.JobStatusImportPending
	snapshot := t.current
	t.mu.Unlock()

	t.notify(snapshot)
	return nil
}

// Transition validates and applies a status change.
func (t *Tracker) Transition(status compression.JobStatus) error {
	t.mu.Lock()
	if t.current.Status == "" {
		t.mu.Unlock()
		return fmt.Errorf("cannot transition without a created job")
	}
	if status == t.current.Status {
		t.mu.Unlock()
		return nil
	}
	if !isValidTransition(t.current.Status, status) {
		from := t.current.Status
		t.mu.Unlock()
		return fmt.Errorf("invalid transition: %s -> %s", from, status)
	}
	t.current.Status = status
	snapshot := t.current
	t.mu.Unlock()

	t.notify(snapshot)
	return nil
}

// Fail moves a non-terminal job to failed. Jobs that were never created
// are left untouched.
func (t *Tracker) Fail() {
	t.mu.RLock()
	status := t.current.Status
	t.mu.RUnlock()

	if status == "" || IsTerminal(status) {
		return
	}
	_ = t.Transition(compression.JobStatusFailed)
}

// Current returns a snapshot of the tracked job.
func (t *Tracker) Current() compression.Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

func (t *Tracker) notify(job compression.Job) {
	if t.onChange != nil {
		t.onChange(job)
	}
}

// IsTerminal reports whether status ends the job lifecycle.
func IsTerminal(status compression.JobStatus) bool {
	return status == compression.JobStatusComplete || status == compression.JobStatusFailed
}

// isValidTransition enforces the job state machine edges.
func isValidTransition(from, to compression.JobStatus) bool {
	switch from {
	case compression.JobStatusImportPending:
		return to == compression.JobStatusUploading || to == compression.JobStatusFailed
	case compression.JobStatusUploading:
		return to == compression.JobStatusConverting || to == compression.JobStatusFailed
	case compression.JobStatusConverting:
		return to == compression.JobStatusExporting || to == compression.JobStatusFailed
	case compression.JobStatusExporting:
		return to == compression.JobStatusComplete || to == compression.JobStatusFailed
	default:
		return false
	}
}
