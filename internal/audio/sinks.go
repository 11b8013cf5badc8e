package audio

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
)

// Recorder keeps every emitted event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Emit records ev.
func (r *Recorder) Emit(ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// ByLayer returns recorded events for one layer.
func (r *Recorder) ByLayer(l Layer) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Layer == l {
			out = append(out, ev)
		}
	}
	return out
}

// Reset drops recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Channel forwards events to a buffered channel without blocking.
type Channel struct {
	C chan Event
}

// NewChannel creates a channel sink with the given buffer size.
func NewChannel(size int) *Channel {
	return &Channel{C: make(chan Event, size)}
}

// Emit sends ev or returns ErrDropped when the buffer is full.
func (c *Channel) Emit(ev Event) error {
	select {
	case c.C <- ev:
		return nil
	default:
		return ErrDropped
	}
}

// LogSink writes each event as a debug log line.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink logs events through logger.
func NewLogSink(logger *log.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Emit logs ev.
func (s *LogSink) Emit(ev Event) error {
	s.logger.Debug("note",
		"layer", ev.Layer,
		"time", ev.Time,
		"pitch", ev.Pitch,
		"step", ev.Step,
		"velocity", ev.Velocity,
		"style", ev.Style,
	)
	return nil
}

type multi []Sink

// Multi fans events out to every sink. All sinks see every event;
// errors are joined.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Emit(ev Event) error {
	var errs []error
	for _, s := range m {
		if err := s.Emit(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
