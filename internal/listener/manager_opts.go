package listener

import (
	"time"

	"github.com/pixil98/go-arena/internal/metrics"
	"github.com/pixil98/go-arena/internal/protocol"
)

type ConnectionManagerOpt func(*ConnectionManager)

// WithCodec sets the frame codec used for client messages.
func WithCodec(c protocol.Codec) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.codec = c
	}
}

// WithQueueSize bounds each outbound queue of a session. A reliable queue
// that stays full kicks the session; a full volatile queue drops the frame.
func WithQueueSize(n int) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		if n > 0 {
			m.queueSize = n
		}
	}
}

// WithStallTimeout sets how long a reliable frame may wait for room in a
// full queue before the session is kicked.
func WithStallTimeout(d time.Duration) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		if d > 0 {
			m.stallTimeout = d
		}
	}
}

func WithPingInterval(d time.Duration) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		if d > 0 {
			m.pingInterval = d
		}
	}
}

func WithRecorder(r *metrics.Recorder) ConnectionManagerOpt {
	return func(m *ConnectionManager) {
		m.recorder = r
	}
}
