package services

import (
	"log"
	"sync"
)

// Tracker records analytics events. Implementations must not block and must
// never report failures to the caller.
type Tracker interface {
	Event(category, action, label string)
}

type TrackerEvent struct {
	Category string
	Action   string
	Label    string
}

// NopTracker discards events.
type NopTracker struct{}

func (NopTracker) Event(string, string, string) {}

// AsyncTracker queues events for a single delivery goroutine. When the queue
// is full the event is dropped.
type AsyncTracker struct {
	mu     sync.RWMutex
	closed bool
	events chan TrackerEvent
	sink   func(TrackerEvent)
	done   chan struct{}
}

func NewAsyncTracker(buffer int, sink func(TrackerEvent)) *AsyncTracker {
	if buffer <= 0 {
		buffer = 64
	}
	if sink == nil {
		sink = LogSink
	}
	t := &AsyncTracker{events: make(chan TrackerEvent, buffer), sink: sink, done: make(chan struct{})}
	go t.run()
	return t
}

// LogSink writes events to the standard logger.
func LogSink(e TrackerEvent) {
	log.Printf("telemetry: %s/%s label=%q", e.Category, e.Action, e.Label)
}

func (t *AsyncTracker) run() {
	defer close(t.done)
	for e := range t.events {
		t.sink(e)
	}
}

func (t *AsyncTracker) Event(category, action, label string) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.events <- TrackerEvent{Category: category, Action: action, Label: label}:
	default:
	}
}

// Close stops accepting events and waits for queued ones to be delivered.
func (t *AsyncTracker) Close() {
	t.mu.Lock()
	if !t.closed {
		t.closed = true
		close(t.events)
	}
	t.mu.Unlock()
	<-t.done
}
