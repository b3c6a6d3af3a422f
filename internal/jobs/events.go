package jobs

import (
	"sync"
	"time"

	"compresspdf/internal/domain/compression"
)

// EventType classifies messages recorded during a compression request.
type EventType string

const (
	EventTypeProgress EventType = "progress"
	EventTypeJob      EventType = "job"
	EventTypeSuccess  EventType = "success"
	EventTypeFailure  EventType = "failure"
)

// Event is a sequenced entry consumed by UI subscribers.
type Event struct {
	Seq       int64                 `json:"seq"`
	Timestamp time.Time             `json:"timestamp"`
	RequestID string                `json:"request_id,omitempty"`
	Type      EventType             `json:"type"`
	JobID     string                `json:"job_id,omitempty"`
	JobStatus compression.JobStatus `json:"job_status,omitempty"`
	Message   string                `json:"message,omitempty"`
	OutputDir string                `json:"output_dir,omitempty"`
}

// EventBus stores recent events and provides incremental reads.
type EventBus struct {
	mu        sync.RWMutex
	nextSeq   int64
	maxEvents int
	events    []Event
}

// NewEventBus creates a bounded in-memory event buffer.
func NewEventBus(maxEvents int) *EventBus {
	if maxEvents <= 0 {
		maxEvents = 200
	}

	return &EventBus{
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}
}

// Publish appends one event and assigns sequence and timestamp.
func (b *EventBus) Publish(event Event) Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSeq++
	event.Seq = b.nextSeq
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	b.events = append(b.events, event)
	if len(b.events) > b.maxEvents {
		trim := len(b.events) - b.maxEvents
		b.events = append([]Event(nil), b.events[trim:]...)
	}

	return event
}

// Since returns events with sequence strictly greater than seq.
func (b *EventBus) Since(seq int64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Event, 0, len(b.events))
	for _, event := range b.events {
		if event.Seq > seq {
			out = append(out, event)
		}
	}
	return out
}
