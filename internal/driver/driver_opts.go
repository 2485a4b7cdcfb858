package driver

import "context"

type LoopOpt func(*Loop)

// WithClock replaces the system clock, mostly for tests that drive RunDue by
// hand.
func WithClock(c Clock) LoopOpt {
	return func(l *Loop) {
		l.clock = c
	}
}

func WithInboxSize(size int) LoopOpt {
	return func(l *Loop) {
		l.inbox = make(chan func(context.Context), size)
	}
}
