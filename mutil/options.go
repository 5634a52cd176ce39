package mutil

import (
	"time"

	"go.uber.org/zap"

	"gitlab.com/gomidi/mutil/message"
)

const (
	// PollInterval is the pause between two reads of the input port.
	PollInterval = 10 * time.Millisecond

	// BufferSize is the number of messages read per poll, and the capacity
	// of the stream channel.
	BufferSize = 1024
)

// Option configures a Mutil.
type Option func(*Mutil)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mutil) {
		m.log = l
	}
}

// WithPollInterval overrides PollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(m *Mutil) {
		m.pollInterval = d
	}
}

// WithBufferSize overrides BufferSize.
func WithBufferSize(n int) Option {
	return func(m *Mutil) {
		m.bufferSize = n
	}
}

// WithEventFilter makes Stream forward only messages of the given types.
func WithEventFilter(types ...message.Type) Option {
	return func(m *Mutil) {
		m.filter = types
	}
}
