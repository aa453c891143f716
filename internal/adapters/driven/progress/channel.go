// Package progress provides driven.ProgressSink implementations.
package progress

import (
	"sync"

	"github.com/custodia-labs/clipper/internal/core/ports/driven"
)

// DefaultBuffer is the default number of undelivered messages a
// ChannelSink holds before dropping new ones.
const DefaultBuffer = 64

// Ensure the sinks implement the interface.
var (
	_ driven.ProgressSink = (*ChannelSink)(nil)
	_ driven.ProgressSink = NopSink{}
)

// ChannelSink delivers status messages over a buffered channel.
// Messages sent while the buffer is full are dropped.
type ChannelSink struct {
	mu      sync.Mutex
	ch      chan string
	closed  bool
	dropped int
}

// NewChannelSink creates a sink with the given buffer size.
// A non-positive size selects DefaultBuffer.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &ChannelSink{ch: make(chan string, buffer)}
}

// Notify queues status without blocking.
func (s *ChannelSink) Notify(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- status:
	default:
		s.dropped++
	}
}

// Messages returns the receive side of the sink.
// The channel is closed by Close.
func (s *ChannelSink) Messages() <-chan string {
	return s.ch
}

// Dropped returns how many messages were discarded because the buffer was full.
func (s *ChannelSink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close closes the message channel. Later notifications are ignored.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// NopSink discards every message.
type NopSink struct{}

// Notify does nothing.
func (NopSink) Notify(string) {}
