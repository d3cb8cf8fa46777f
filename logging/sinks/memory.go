package sinks

import (
	"context"
	"sync"

	"titans-realm/server/logging"
)

// MemorySink retains every written event for inspection in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []logging.Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Write(event logging.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Close(context.Context) error {
	return nil
}

func (s *MemorySink) Events() []logging.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]logging.Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
