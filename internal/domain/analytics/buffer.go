// Package analytics keeps a bounded, ordered, in-memory log of product
// events. Nothing here is persisted.
package analytics

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultCapacity = 1000

type Event struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

type Buffer struct {
	mu       sync.Mutex
	events   []Event
	capacity int
	now      func() time.Time
}

// NewBuffer keeps at most capacity events, dropping the oldest first.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity, now: time.Now}
}

// Track appends an event and returns it.
func (b *Buffer) Track(name string, props map[string]any) Event {
	ev := Event{
		ID:         uuid.NewString(),
		Name:       name,
		Properties: props,
		Timestamp:  b.now().UTC(),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) >= b.capacity {
		n := len(b.events) - b.capacity + 1
		b.events = append(b.events[:0], b.events[n:]...)
	}
	b.events = append(b.events, ev)
	return ev
}

// Events returns a copy of the buffered events, oldest first.
func (b *Buffer) Events() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

// Clear drops every event and reports how many were removed.
func (b *Buffer) Clear() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.events)
	b.events = nil
	return n
}
