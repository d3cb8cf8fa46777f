package logging

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

type NamedSink struct {
	Name string
	Sink Sink
}

// Router buffers published events and fans them out to the configured
// sinks on a background goroutine so publishers never block on I/O.
type Router struct {
	cfg         Config
	queue       chan Event
	sinks       []NamedSink
	clock       Clock
	minSeverity Severity
	closed      atomic.Bool
	wg          sync.WaitGroup

	eventsTotal  atomic.Uint64
	droppedTotal atomic.Uint64
	lastDropLog  atomic.Int64
}

type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
}

func NewRouter(clock Clock, cfg Config, sinks []NamedSink) *Router {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultConfig().BufferSize
	}
	r := &Router{
		cfg:         cfg,
		queue:       make(chan Event, bufferSize),
		sinks:       sinks,
		clock:       clock,
		minSeverity: cfg.MinimumSeverity,
	}
	r.wg.Add(1)
	go r.dispatch()
	return r
}

func (r *Router) Publish(_ context.Context, event Event) {
	if r == nil || r.closed.Load() {
		return
	}
	if event.Severity < r.minSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	select {
	case r.queue <- event:
		r.eventsTotal.Add(1)
	default:
		r.droppedTotal.Add(1)
		r.warnDrops()
	}
}

func (r *Router) warnDrops() {
	interval := r.cfg.DropWarnInterval
	if interval <= 0 {
		interval = DefaultConfig().DropWarnInterval
	}
	now := r.clock.Now().UnixNano()
	last := r.lastDropLog.Load()
	if now-last < interval.Nanoseconds() {
		return
	}
	if r.lastDropLog.CompareAndSwap(last, now) {
		log.Printf("logging: dropped %d events, queue full", r.droppedTotal.Load())
	}
}

func (r *Router) dispatch() {
	defer r.wg.Done()
	for event := range r.queue {
		for _, named := range r.sinks {
			if err := named.Sink.Write(event); err != nil {
				log.Printf("logging: sink %s write failed: %v", named.Name, err)
			}
		}
	}
}

// Close drains the queue, then closes every sink. Safe to call once.
func (r *Router) Close(ctx context.Context) error {
	if r == nil || !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.queue)
	r.wg.Wait()
	var firstErr error
	for _, named := range r.sinks {
		if err := named.Sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Router) Stats() RouterStats {
	if r == nil {
		return RouterStats{}
	}
	return RouterStats{
		EventsTotal:  r.eventsTotal.Load(),
		DroppedTotal: r.droppedTotal.Load(),
	}
}
