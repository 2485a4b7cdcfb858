package listener

import "context"

type WebsocketListenerOpt func(*WebsocketListener)

// WithPath sets the HTTP path that accepts websocket upgrades.
func WithPath(path string) WebsocketListenerOpt {
	return func(l *WebsocketListener) {
		l.path = path
	}
}

// WithReadLimit caps the size of a single client frame in bytes.
func WithReadLimit(n int64) WebsocketListenerOpt {
	return func(l *WebsocketListener) {
		l.readLimit = n
	}
}

// WithReadyCheck delays accepting connections until check returns.
func WithReadyCheck(check func(context.Context) error) WebsocketListenerOpt {
	return func(l *WebsocketListener) {
		l.ready = check
	}
}
