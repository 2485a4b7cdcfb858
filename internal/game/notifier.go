package game

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// Transport delivers encoded frames to client connections.
type Transport interface {
	// Send delivers reliably and in order per connection.
	Send(conn ConnectionID, data []byte) error
	// SendVolatile may drop the frame when the connection is behind.
	SendVolatile(conn ConnectionID, data []byte) error
}

// Encoder turns an outbound message into a wire frame.
type Encoder interface {
	Encode(t string, payload any) ([]byte, error)
}

// Scheduler runs deferred work on the goroutine that owns the world.
type Scheduler interface {
	After(d time.Duration, fn func(context.Context))
}

// Notifier addresses messages to players through their sessions. Sends to a
// player without a session are dropped silently, and transport failures are
// logged rather than returned since no caller could act on them.
type Notifier struct {
	sessions  *Sessions
	transport Transport
	encoder   Encoder
}

func NewNotifier(sessions *Sessions, transport Transport, encoder Encoder) *Notifier {
	return &Notifier{
		sessions:  sessions,
		transport: transport,
		encoder:   encoder,
	}
}

// Unicast sends to one player.
func (n *Notifier) Unicast(ctx context.Context, id EntityID, t string, payload any) {
	conn, err := n.lookup(id)
	if errors.Is(err, ErrNoSession) {
		return
	}
	n.SendTo(ctx, conn, t, payload)
}

// SendTo sends to a connection directly.
func (n *Notifier) SendTo(ctx context.Context, conn ConnectionID, t string, payload any) {
	data, ok := n.encode(ctx, t, payload)
	if !ok {
		return
	}
	if err := n.transport.Send(conn, data); err != nil {
		slog.WarnContext(ctx, "sending message", "type", t, "conn", conn, "error", err)
	}
}

// Broadcast sends to every player with a session.
func (n *Notifier) Broadcast(ctx context.Context, t string, payload any) {
	data, ok := n.encode(ctx, t, payload)
	if !ok {
		return
	}
	n.sessions.ForEach(func(_ EntityID, conn ConnectionID) {
		if err := n.transport.Send(conn, data); err != nil {
			slog.WarnContext(ctx, "broadcasting message", "type", t, "conn", conn, "error", err)
		}
	})
}

// BroadcastVolatile sends to every player with a session on the best effort
// channel.
func (n *Notifier) BroadcastVolatile(ctx context.Context, t string, payload any) {
	data, ok := n.encode(ctx, t, payload)
	if !ok {
		return
	}
	n.sessions.ForEach(func(_ EntityID, conn ConnectionID) {
		if err := n.transport.SendVolatile(conn, data); err != nil {
			slog.DebugContext(ctx, "dropping volatile message", "type", t, "conn", conn, "error", err)
		}
	})
}

func (n *Notifier) lookup(id EntityID) (ConnectionID, error) {
	conn, ok := n.sessions.Resolve(id)
	if !ok {
		return "", ErrNoSession
	}
	return conn, nil
}

func (n *Notifier) encode(ctx context.Context, t string, payload any) ([]byte, bool) {
	data, err := n.encoder.Encode(t, payload)
	if err != nil {
		slog.ErrorContext(ctx, "encoding message", "type", t, "error", err)
		return nil, false
	}
	return data, true
}
